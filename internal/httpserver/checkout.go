package httpserver

import (
	"context"
	"net/http"

	"printshop/internal/domain"

	"github.com/gin-gonic/gin"
)

type promoService interface {
	Validate(ctx context.Context, code string, orderTotal float64) (*domain.PromoValidationResult, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
	Create(ctx context.Context, p *domain.PromoCode) (*domain.PromoCode, error)
	Update(ctx context.Context, p *domain.PromoCode) (*domain.PromoCode, error)
	Delete(ctx context.Context, id int64) error
}

type deliveryService interface {
	Calculate(ctx context.Context, city string, orderTotal float64) (*domain.DeliveryCalculation, error)
	ListZones(ctx context.Context) ([]domain.DeliveryZone, error)
	CreateZone(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	UpdateZone(ctx context.Context, z *domain.DeliveryZone) (*domain.DeliveryZone, error)
	DeleteZone(ctx context.Context, id int64) error
	ListPoints(ctx context.Context) ([]domain.PickupPoint, error)
	CreatePoint(ctx context.Context, p *domain.PickupPoint) (*domain.PickupPoint, error)
	UpdatePoint(ctx context.Context, p *domain.PickupPoint) (*domain.PickupPoint, error)
	DeletePoint(ctx context.Context, id int64) error
}

func validatePromoHandler(promos promoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code       string  `json:"code" binding:"required"`
			OrderTotal float64 `json:"orderTotal" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "code and orderTotal required")
			return
		}
		res, err := promos.Validate(c.Request.Context(), req.Code, req.OrderTotal)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, res)
	}
}

func calculateDeliveryHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			City       string  `json:"city" binding:"required"`
			OrderTotal float64 `json:"orderTotal"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "city required")
			return
		}
		calc, err := delivery.Calculate(c.Request.Context(), req.City, req.OrderTotal)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, calc)
	}
}

func listPromosHandler(promos promoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := promos.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func createPromoHandler(promos promoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.PromoCode
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		p, err := promos.Create(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, p)
	}
}

func updatePromoHandler(promos promoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req domain.PromoCode
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		req.ID = id
		p, err := promos.Update(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusOK, p)
	}
}

func deletePromoHandler(promos promoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := promos.Delete(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func listZonesHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := delivery.ListZones(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func createZoneHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.DeliveryZone
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		z, err := delivery.CreateZone(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, z)
	}
}

func updateZoneHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req domain.DeliveryZone
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		req.ID = id
		z, err := delivery.UpdateZone(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusOK, z)
	}
}

func deleteZoneHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := delivery.DeleteZone(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func listPointsHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := delivery.ListPoints(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func createPointHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.PickupPoint
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		p, err := delivery.CreatePoint(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, p)
	}
}

func updatePointHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req domain.PickupPoint
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		req.ID = id
		p, err := delivery.UpdatePoint(c.Request.Context(), &req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusOK, p)
	}
}

func deletePointHandler(delivery deliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := delivery.DeletePoint(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}
