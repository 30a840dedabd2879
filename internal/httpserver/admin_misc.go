package httpserver

import (
	"context"
	"net/http"

	"printshop/internal/domain"
	contentrepo "printshop/internal/repository/content"

	"github.com/gin-gonic/gin"
)

type loyaltyService interface {
	Settings(ctx context.Context) (*domain.LoyaltySettings, error)
	Update(ctx context.Context, in domain.LoyaltySettings) (*domain.LoyaltySettings, error)
}

type contentService interface {
	Get(ctx context.Context, key string) (*domain.ContentBlock, error)
	List(ctx context.Context) ([]domain.ContentBlock, error)
	Create(ctx context.Context, in contentrepo.CreateBlockInput) (*domain.ContentBlock, error)
	Update(ctx context.Context, id int64, in contentrepo.UpdateBlockInput) (*domain.ContentBlock, error)
	Delete(ctx context.Context, id int64) error
}

type analyticsService interface {
	Dashboard(ctx context.Context, period string) (*domain.DashboardStats, error)
}

func dashboardHandler(analytics analyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := analytics.Dashboard(c.Request.Context(), c.DefaultQuery("period", "month"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, stats)
	}
}

func contentBlockHandler(content contentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		block, err := content.Get(c.Request.Context(), c.Param("key"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, block)
	}
}

func adminListContentHandler(content contentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := content.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func createContentHandler(content contentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contentrepo.CreateBlockInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		block, err := content.Create(c.Request.Context(), req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, block)
	}
}

func updateContentHandler(content contentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req contentrepo.UpdateBlockInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		block, err := content.Update(c.Request.Context(), id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, block)
	}
}

func deleteContentHandler(content contentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := content.Delete(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func loyaltySettingsHandler(loyalty loyaltyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := loyalty.Settings(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, settings)
	}
}

func updateLoyaltyHandler(loyalty loyaltyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.LoyaltySettings
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		settings, err := loyalty.Update(c.Request.Context(), req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusOK, settings)
	}
}
