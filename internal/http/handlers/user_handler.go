package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/service"
)

// UserHandler обслуживает профили пользователей и список специалистов.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// ListProviders GET /providers?available=true
func (h *UserHandler) ListProviders(c *gin.Context) {
	limit, offset := common.GetPagination(c, 20)
	availableOnly := c.Query("available") == "true"

	providers, err := h.users.ListProviders(c.Request.Context(), availableOnly, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, providers, len(providers), limit, offset)
}

// GetMe GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateMe PUT /me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if !common.BindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
