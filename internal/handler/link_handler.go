package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gamassss/linkdash/internal/analytics"
	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/middleware"
	"github.com/gamassss/linkdash/pkg/response"
	"github.com/gamassss/linkdash/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LinkService interface {
	CreateLink(ctx context.Context, userID string, req *domain.CreateLinkRequest) (*domain.Link, error)
	BulkCreate(ctx context.Context, userID string, reqs []domain.CreateLinkRequest) (*domain.BulkResult, error)
	ListLinks(ctx context.Context, userID string, q analytics.Query) (*domain.LinkList, error)
	ToggleLink(ctx context.Context, userID, id string) (*domain.Link, error)
	RenameLink(ctx context.Context, userID, id, name string) (*domain.Link, error)
	DeleteLink(ctx context.Context, userID, id string) error
	BulkToggle(ctx context.Context, userID string, ids []string, enabled bool) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, userID string, ids []string) (*domain.BulkResult, error)
}

type LinkHandler struct {
	service LinkService
	baseURL string
	now     func() time.Time
}

func NewLinkHandler(service LinkService, baseURL string) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// LinkView is a link as the dashboard sees it.
type LinkView struct {
	*domain.Link
	ShortURL    string            `json:"short_url"`
	Status      domain.LinkStatus `json:"status"`
	HasPassword bool              `json:"has_password"`
}

type listLinksQuery struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=createdAt clickCount visitorCount slug url"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Status    string `form:"status" binding:"omitempty,oneof=all active expired disabled"`
	TimeRange string `form:"time_range" binding:"omitempty,oneof=all 7d 30d 90d"`
}

func (h *LinkHandler) view(link *domain.Link, now time.Time) LinkView {
	return LinkView{
		Link:        link,
		ShortURL:    h.baseURL + "/" + link.Slug,
		Status:      link.Status(now),
		HasPassword: link.HasPassword(),
	}
}

func (h *LinkHandler) Create(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	link, err := h.service.CreateLink(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create link")
		return
	}

	response.Created(c, "Link created successfully", h.view(link, h.now()))
}

func (h *LinkHandler) BulkCreate(c *gin.Context) {
	var req domain.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), middleware.UserID(c), req.Links)
	if err != nil {
		respondError(c, err, "Failed to create links")
		return
	}

	response.OK(c, "Bulk create finished", result)
}

func (h *LinkHandler) List(c *gin.Context) {
	var q listLinksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, err := h.service.ListLinks(c.Request.Context(), middleware.UserID(c), analytics.Query{
		Search:    q.Search,
		SortBy:    analytics.SortField(q.SortBy),
		SortOrder: analytics.SortOrder(q.SortOrder),
		Status:    analytics.StatusFilter(q.Status),
		TimeRange: analytics.TimeRange(q.TimeRange),
	})
	if err != nil {
		respondError(c, err, "Failed to list links")
		return
	}

	now := h.now()
	views := make([]LinkView, 0, len(list.Links))
	for i := range list.Links {
		views = append(views, h.view(&list.Links[i], now))
	}

	response.OK(c, "Links retrieved successfully", gin.H{
		"links":  views,
		"counts": list.Counts,
	})
}

func (h *LinkHandler) Rename(c *gin.Context) {
	var req domain.RenameLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	link, err := h.service.RenameLink(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err, "Failed to rename link")
		return
	}

	response.OK(c, "Link renamed successfully", h.view(link, h.now()))
}

func (h *LinkHandler) Toggle(c *gin.Context) {
	link, err := h.service.ToggleLink(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to toggle link")
		return
	}

	response.OK(c, "Link updated successfully", h.view(link, h.now()))
}

func (h *LinkHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteLink(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete link")
		return
	}

	response.OK(c, "Link deleted successfully", nil)
}

func (h *LinkHandler) BulkToggle(c *gin.Context) {
	var req domain.BulkToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.BulkToggle(c.Request.Context(), middleware.UserID(c), req.IDs, req.Enabled)
	if err != nil {
		respondError(c, err, "Failed to update links")
		return
	}

	response.OK(c, "Bulk toggle finished", result)
}

func (h *LinkHandler) BulkDelete(c *gin.Context) {
	var req domain.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.BulkDelete(c.Request.Context(), middleware.UserID(c), req.IDs)
	if err != nil {
		respondError(c, err, "Failed to delete links")
		return
	}

	response.OK(c, "Bulk delete finished", result)
}
