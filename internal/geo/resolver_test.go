package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Country(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"countryCode":"us"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL+"/json/%s", time.Second)

	code, err := r.Country(context.Background(), "8.8.8.8")

	require.NoError(t, err)
	assert.Equal(t, "US", code)
}

func TestResolver_SkipsPrivateAddresses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	r := NewResolver(srv.URL+"/%s", time.Second)

	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.10", "::1", "garbage", ""} {
		code, err := r.Country(context.Background(), ip)
		assert.NoError(t, err)
		assert.Empty(t, code)
	}
	assert.Zero(t, calls.Load())
}

func TestResolver_FailedLookupStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	code, err := NewResolver(srv.URL+"/%s", time.Second).Country(context.Background(), "1.1.1.1")

	assert.NoError(t, err)
	assert.Empty(t, code)
}

func TestResolver_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResolver(srv.URL+"/%s", time.Second)

	for i := 0; i < 5; i++ {
		_, err := r.Country(context.Background(), "1.1.1.1")
		assert.ErrorIs(t, err, ErrLookupFailed)
	}

	_, err := r.Country(context.Background(), "1.1.1.1")

	assert.Error(t, err)
	assert.Equal(t, "open", r.State())
	assert.Equal(t, int32(5), calls.Load())
}
