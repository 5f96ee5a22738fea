package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/pkg/detector"
	"github.com/gamassss/linkdash/pkg/response"
	"github.com/gin-gonic/gin"
)

type RedirectService interface {
	Resolve(ctx context.Context, slug, password string) (*domain.Link, error)
	TrackClick(ctx context.Context, link *domain.Link, req domain.ClickRequest)
}

type RedirectHandler struct {
	service RedirectService
}

func NewRedirectHandler(service RedirectService) *RedirectHandler {
	return &RedirectHandler{service: service}
}

func (h *RedirectHandler) Redirect(c *gin.Context) {
	link, err := h.service.Resolve(c.Request.Context(), c.Param("slug"), "")
	if err != nil {
		h.respondUnavailable(c, err)
		return
	}

	h.track(c, link)
	c.Redirect(http.StatusFound, link.URL)
}

// Unlock checks the password of a protected link and hands back its target so
// the client can navigate there.
func (h *RedirectHandler) Unlock(c *gin.Context) {
	var req domain.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Password is required")
		return
	}

	link, err := h.service.Resolve(c.Request.Context(), c.Param("slug"), req.Password)
	if err != nil {
		h.respondUnavailable(c, err)
		return
	}

	h.track(c, link)
	response.OK(c, "Link unlocked", gin.H{"url": link.URL})
}

func (h *RedirectHandler) track(c *gin.Context, link *domain.Link) {
	ua := c.GetHeader("User-Agent")
	h.service.TrackClick(c.Request.Context(), link, domain.ClickRequest{
		LinkID:     link.ID,
		IPAddress:  detector.ClientIP(c.Request.RemoteAddr, c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP")),
		UserAgent:  ua,
		Referer:    c.Request.Referer(),
		DeviceType: string(detector.DetectDeviceType(ua)),
	})
}

// Disabled and not-yet-started links look the same as missing ones.
func (h *RedirectHandler) respondUnavailable(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrLinkExpired):
		response.Gone(c, "Link has expired")
	case errors.Is(err, domain.ErrPasswordRequired):
		response.Unauthorized(c, "Password required")
	case errors.Is(err, domain.ErrInvalidPassword):
		response.Unauthorized(c, "Invalid password")
	case errors.Is(err, domain.ErrLinkNotFound), errors.Is(err, domain.ErrLinkDisabled), errors.Is(err, domain.ErrLinkNotStarted):
		response.NotFound(c, "Link not found")
	default:
		respondError(c, err, "Failed to resolve link")
	}
}
