package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"printshop/internal/domain"
	reviewsvc "printshop/internal/service/review"

	"github.com/gin-gonic/gin"
)

type reviewService interface {
	Create(ctx context.Context, userID int64, in reviewsvc.CreateInput) (*domain.Review, error)
	ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	ListOwn(ctx context.Context, userID int64) ([]domain.Review, error)
	ListForModeration(ctx context.Context, pendingOnly bool, page, limit int) ([]domain.Review, int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

func createReviewHandler(reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		var req reviewsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		rv, err := reviews.Create(c.Request.Context(), userID, req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, rv)
	}
}

func ownReviewsHandler(reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		list, err := reviews.ListOwn(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func moderationReviewsHandler(reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pendingOnly := c.Query("pending") == "true"
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		list, total, err := reviews.ListForModeration(c.Request.Context(), pendingOnly, page, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondPage(c, list, page, limit, total)
	}
}

func approveReviewHandler(reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Approved *bool `json:"approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "approved required")
			return
		}
		rv, err := reviews.SetApproved(c.Request.Context(), id, *req.Approved)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, rv)
	}
}

func deleteReviewHandler(reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := reviews.Delete(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}
