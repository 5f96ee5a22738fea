package validator

import (
	"strings"
	"testing"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CreateLinkRequest(t *testing.T) {
	errs := Validate(&domain.CreateLinkRequest{URL: "https://example.com", Slug: "my-link_1", ExpiresIn: domain.ExpirySevenDays})
	assert.Empty(t, errs)

	errs = Validate(&domain.CreateLinkRequest{URL: "https://example.com", Slug: "bad slug!"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Slug", errs[0].Field)
	assert.Contains(t, errs[0].Message, "letters, numbers")

	errs = Validate(&domain.CreateLinkRequest{URL: "https://example.com", Name: strings.Repeat("n", 29)})
	require.Len(t, errs, 1)
	assert.Equal(t, "Name must be at most 28 characters", errs[0].Message)

	errs = Validate(&domain.CreateLinkRequest{URL: "https://example.com", ExpiresIn: "2w"})
	require.Len(t, errs, 1)
	assert.Equal(t, "ExpiresIn", errs[0].Field)

	errs = Validate(&domain.CreateLinkRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "URL is required", errs[0].Message)
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com/path?q=1"))
	assert.True(t, IsValidURL("http://localhost:8080"))
	assert.False(t, IsValidURL("not a url"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL(""))
}

func TestIsReservedKeyword(t *testing.T) {
	assert.True(t, IsReservedKeyword("API"))
	assert.True(t, IsReservedKeyword("metrics"))
	assert.False(t, IsReservedKeyword("docs"))
}
