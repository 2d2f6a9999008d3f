package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/service"
)

// CatalogHandler обслуживает категории и навыки.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

// GetCategory GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// GetCategoryByName GET /categories/by-name/:name
func (h *CatalogHandler) GetCategoryByName(c *gin.Context) {
	category, err := h.catalog.GetCategoryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// CreateCategory POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req models.CategoryInput
	if !common.BindJSON(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory PUT /categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CategoryInput
	if !common.BindJSON(c, &req) {
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory DELETE /categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategorySkills GET /categories/:id/skills
func (h *CatalogHandler) ListCategorySkills(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	skills, err := h.catalog.ListCategorySkills(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, skills)
}

// SearchSkills GET /skills/search?q=&level=
func (h *CatalogHandler) SearchSkills(c *gin.Context) {
	var level *string
	if v := c.Query("level"); v != "" {
		level = &v
	}

	skills, err := h.catalog.SearchSkills(c.Request.Context(), c.Query("q"), level)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, skills)
}

// ListUserSkills GET /users/:id/skills
func (h *CatalogHandler) ListUserSkills(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	skills, err := h.catalog.ListUserSkills(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, skills)
}

// ListMySkills GET /me/skills
func (h *CatalogHandler) ListMySkills(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	skills, err := h.catalog.ListMySkills(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, skills)
}

// AddSkill POST /skills
func (h *CatalogHandler) AddSkill(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req models.SkillInput
	if !common.BindJSON(c, &req) {
		return
	}

	skill, err := h.catalog.AddSkill(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, skill)
}

// UpdateSkill PUT /skills/:id
func (h *CatalogHandler) UpdateSkill(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SkillUpdate
	if !common.BindJSON(c, &req) {
		return
	}

	skill, err := h.catalog.UpdateSkill(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, skill)
}

// RemoveSkill DELETE /skills/:id
func (h *CatalogHandler) RemoveSkill(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.RemoveSkill(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
