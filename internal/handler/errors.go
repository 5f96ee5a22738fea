package handler

import (
	"errors"
	"log/slog"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/logger"
	"github.com/gamassss/linkdash/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError writes the client-facing form of a service error. Anything not
// recognised is logged and answered with fallback as a 500.
func respondError(c *gin.Context, err error, fallback string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ValidationErrors(c, []response.ValidationError{{Field: vErr.Field, Message: vErr.Message}})
	case errors.Is(err, domain.ErrLinkNotFound):
		response.NotFound(c, "Link not found")
	case errors.Is(err, domain.ErrSlugTaken), errors.Is(err, domain.ErrDuplicateURL):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrTooManyItems), errors.Is(err, domain.ErrNoItems):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrSlugGenerationExhausted):
		response.ServiceUnavailable(c, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error(fallback, slog.String("error", err.Error()))
		response.InternalServerError(c, fallback)
	}
}
