package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req models.CreateReviewInput
	if !common.BindJSON(c, &req) {
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// GetReview GET /reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.GetReview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

// UpdateReview PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ReviewUpdate
	if !common.BindJSON(c, &req) {
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUserReviews GET /users/:id/reviews?public=true|false
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var isPublic *bool
	switch c.Query("public") {
	case "true":
		v := true
		isPublic = &v
	case "false":
		v := false
		isPublic = &v
	}

	reviews, err := h.reviews.ListUserReviews(c.Request.Context(), userID, isPublic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}

// ListTopReviews GET /users/:id/reviews/top?min_rating=4
func (h *ReviewHandler) ListTopReviews(c *gin.Context) {
	userID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListReviewsByRating(c.Request.Context(), userID, common.ParseIntQuery(c, "min_rating", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}

// RatingSummary GET /users/:id/rating
func (h *ReviewHandler) RatingSummary(c *gin.Context) {
	userID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.reviews.RatingSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

// ListBookingReviews GET /bookings/:id/reviews?reviewer_id=
func (h *ReviewHandler) ListBookingReviews(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	bookingID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	reviewerID, ok := common.OptionalUUIDQuery(c, "reviewer_id")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetBookingReviews(c.Request.Context(), userID, bookingID, reviewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}
