package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/service"
)

// ContactHandler публичная форма обратной связи и её администрирование.
type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactInput
	if !common.BindJSON(c, &req) {
		return
	}

	submission, err := h.contacts.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// List GET /admin/contact?status=&email=
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c, 50)

	submissions, err := h.contacts.List(c.Request.Context(), c.Query("status"), c.Query("email"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, submissions, len(submissions), limit, offset)
}

// Get GET /admin/contact/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, submission)
}

// UpdateStatus PUT /admin/contact/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	submission, err := h.contacts.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, submission)
}
