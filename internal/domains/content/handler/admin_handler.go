package handler

import (
	"net/http"

	"content-backend/internal/domains/content/model"
	"content-backend/internal/domains/content/service"
	"content-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// warnNotReconciled tells the operator a mutation landed only in the
// snapshot and will reach the authoritative store on a later resync.
const warnNotReconciled = "authoritative store unavailable; change saved locally and pending reconciliation"

// AdminHandler - write and control surface, single-operator in practice.
type AdminHandler struct {
	reader service.Reader
	writer service.Writer
}

func NewAdminHandler(reader service.Reader, writer service.Writer) *AdminHandler {
	return &AdminHandler{
		reader: reader,
		writer: writer,
	}
}

// CreateContent - POST /v1/admin/content
func (h *AdminHandler) CreateContent(c *gin.Context) {
	var req model.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.writer.Create(c.Request.Context(), req)
	if model.HandleContentError(c, err) {
		return
	}

	if !result.Reconciled {
		response.SuccessWithWarning(c, http.StatusCreated, result, warnNotReconciled)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// UpdateContent - PUT /v1/admin/content/:id
func (h *AdminHandler) UpdateContent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "content id is required")
		return
	}

	var req model.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.writer.Update(c.Request.Context(), id, req)
	if model.HandleContentError(c, err) {
		return
	}

	if !result.Reconciled {
		response.SuccessWithWarning(c, http.StatusOK, result, warnNotReconciled)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DeleteContent - DELETE /v1/admin/content/:id
func (h *AdminHandler) DeleteContent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "content id is required")
		return
	}

	result, err := h.writer.Delete(c.Request.Context(), id)
	if model.HandleContentError(c, err) {
		return
	}

	if !result.Reconciled {
		response.SuccessWithWarning(c, http.StatusOK, result,
			"authoritative store unavailable; record removed locally and may reappear after a resync")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetContentAuthoritative - GET /v1/admin/content/:id
// Skips the cache tiers so edit forms show the true authoritative state.
func (h *AdminHandler) GetContentAuthoritative(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "content id is required")
		return
	}

	record, err := h.reader.GetByIDAuthoritative(c.Request.Context(), id)
	if model.HandleContentError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, record)
}

// InvalidateCaches - POST /v1/admin/cache/invalidate
func (h *AdminHandler) InvalidateCaches(c *gin.Context) {
	h.writer.InvalidateCaches(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"invalidated": true})
}

// ForceResync - POST /v1/admin/resync
func (h *AdminHandler) ForceResync(c *gin.Context) {
	result, err := h.writer.ForceResync(c.Request.Context())
	if model.HandleContentError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, result)
}
