package handler

import (
	"context"
	"strconv"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/middleware"
	"github.com/gamassss/linkdash/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type AnalyticsService interface {
	Overview(ctx context.Context, userID string) (*domain.Overview, error)
	LinkClicks(ctx context.Context, userID, linkID string, page, pageSize int) (*domain.ClickHistory, error)
}

type AnalyticsHandler struct {
	service AnalyticsService
}

func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err, "Failed to load analytics")
		return
	}

	response.OK(c, "Analytics retrieved successfully", overview)
}

func (h *AnalyticsHandler) LinkClicks(c *gin.Context) {
	page := 1
	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := defaultPageSize
	if sizeParam := c.Query("page_size"); sizeParam != "" {
		if ps, err := strconv.Atoi(sizeParam); err == nil && ps > 0 {
			pageSize = min(ps, maxPageSize)
		}
	}

	history, err := h.service.LinkClicks(c.Request.Context(), middleware.UserID(c), c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to load click history")
		return
	}

	response.OK(c, "Click history retrieved successfully", history)
}
