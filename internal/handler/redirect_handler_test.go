package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRedirectRouter() (*gin.Engine, *mocks.MockRedirectService) {
	svc := new(mocks.MockRedirectService)
	h := NewRedirectHandler(svc)
	router := setupTestRouter()
	router.GET("/:slug", h.Redirect)
	router.POST("/:slug/unlock", h.Unlock)
	return router, svc
}

func TestRedirect_Success(t *testing.T) {
	router, svc := newRedirectRouter()

	link := &domain.Link{ID: "l1", Slug: "docs", URL: "https://docs.example.com"}
	svc.On("Resolve", mock.Anything, "docs", "").Return(link, nil).Once()
	svc.On("TrackClick", mock.Anything, link, mock.MatchedBy(func(req domain.ClickRequest) bool {
		return req.LinkID == "l1" &&
			req.IPAddress == "203.0.113.9" &&
			req.DeviceType == "mobile" &&
			req.Referer == "https://news.example.com"
	})).Return().Once()

	req := httptest.NewRequest("GET", "/docs", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14) Mobile")
	req.Header.Set("Referer", "https://news.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://docs.example.com", w.Header().Get("Location"))
	svc.AssertExpectations(t)
}

func TestRedirect_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", domain.ErrLinkNotFound, http.StatusNotFound},
		{"disabled", domain.ErrLinkDisabled, http.StatusNotFound},
		{"not started", domain.ErrLinkNotStarted, http.StatusNotFound},
		{"expired", domain.ErrLinkExpired, http.StatusGone},
		{"password", domain.ErrPasswordRequired, http.StatusUnauthorized},
		{"database", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRedirectRouter()
			svc.On("Resolve", mock.Anything, "x", "").Return(nil, tt.err).Once()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			svc.AssertNotCalled(t, "TrackClick", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUnlock(t *testing.T) {
	router, svc := newRedirectRouter()

	link := &domain.Link{ID: "l1", Slug: "vault", URL: "https://vault.example.com", Password: "s3cret"}
	svc.On("Resolve", mock.Anything, "vault", "s3cret").Return(link, nil).Once()
	svc.On("TrackClick", mock.Anything, link, mock.Anything).Return().Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/vault/unlock", `{"password": "s3cret"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "https://vault.example.com", data["url"])
}

func TestUnlock_WrongPassword(t *testing.T) {
	router, svc := newRedirectRouter()

	svc.On("Resolve", mock.Anything, "vault", "nope").Return(nil, domain.ErrInvalidPassword).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/vault/unlock", `{"password": "nope"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid password", decode(t, w)["error"])
}

func TestUnlock_MissingPassword(t *testing.T) {
	router, svc := newRedirectRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/vault/unlock", `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}
