package httpserver

import (
	"context"
	"net/http"

	"printshop/internal/domain"

	"github.com/gin-gonic/gin"
)

type cartService interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, userID, itemID int64) (*domain.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		cart, err := carts.Get(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cart)
	}
}

func addCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		var req struct {
			ProductID int64 `json:"productId" binding:"required"`
			Quantity  int   `json:"quantity" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "productId and quantity required")
			return
		}
		cart, err := carts.Add(c.Request.Context(), userID, req.ProductID, req.Quantity)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cart)
	}
}

func updateCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Quantity int `json:"quantity" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "quantity required")
			return
		}
		cart, err := carts.UpdateQuantity(c.Request.Context(), userID, itemID, req.Quantity)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cart)
	}
}

func removeCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		cart, err := carts.Remove(c.Request.Context(), userID, itemID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cart)
	}
}

func clearCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, domain.BuildCart(nil))
	}
}
