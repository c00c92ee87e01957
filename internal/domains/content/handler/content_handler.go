package handler

import (
	"net/http"
	"strconv"

	"content-backend/internal/domains/content/model"
	"content-backend/internal/domains/content/service"
	"content-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Handler - public read surface. Requests degrade silently through the
// tiers; the caller cannot tell cache from snapshot.
type Handler struct {
	reader service.Reader
}

func NewHandler(reader service.Reader) *Handler {
	return &Handler{reader: reader}
}

// ListContent - GET /v1/content
// Query params: kind, category, location, status, search, placement, sort,
// page, page_size
func (h *Handler) ListContent(c *gin.Context) {
	req := parseListRequest(c)

	result, err := h.reader.List(c.Request.Context(), req)
	if model.HandleContentError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Items, &response.Meta{
		Page:        result.Page,
		PageSize:    result.PageSize,
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		HasNextPage: result.HasNextPage,
		HasPrevPage: result.HasPrevPage,
	})
}

// GetContent - GET /v1/content/:id
func (h *Handler) GetContent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "content id is required")
		return
	}

	record, err := h.reader.GetByID(c.Request.Context(), id)
	if model.HandleContentError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, record)
}

// GetContentBySlug - GET /v1/content/slug/:slug
// Matching is case-insensitive against slugs derived from stored titles.
func (h *Handler) GetContentBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "slug is required")
		return
	}

	record, err := h.reader.GetBySlug(c.Request.Context(), slug)
	if model.HandleContentError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, record)
}

func parseListRequest(c *gin.Context) model.ListContentRequest {
	req := model.ListContentRequest{
		Kind:          c.Query("kind"),
		Category:      c.Query("category"),
		Location:      c.Query("location"),
		Status:        c.Query("status"),
		Search:        c.Query("search"),
		PlacementFlag: c.Query("placement"),
		Sort:          c.DefaultQuery("sort", model.SortNewest),
		Page:          1,
		PageSize:      20,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			req.Page = p
		}
	}

	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			req.PageSize = s
		}
	}

	return req
}
