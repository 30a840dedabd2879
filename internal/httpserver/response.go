package httpserver

import (
	"errors"
	"net/http"

	"printshop/internal/domain"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with one of three envelopes: {"data": ...},
// {"data": ..., "meta": {...}} for paginated lists, or
// {"error": {"code": ..., "message": ...}}.

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type pageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func respondPage(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": pageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

func respondValidation(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "validation_error", message)
}

// respondServiceError maps domain sentinels onto HTTP statuses and
// stable error codes the clients switch on.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already_exists", "resource already exists")
	case errors.Is(err, domain.ErrProductInactive):
		respondError(c, http.StatusConflict, "product_inactive", "product is not available")
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(c, http.StatusConflict, "insufficient_stock", "not enough items in stock")
	case errors.Is(err, domain.ErrPromoInactive):
		respondError(c, http.StatusUnprocessableEntity, "promo_inactive", "promo code is not active")
	case errors.Is(err, domain.ErrPromoNotStarted):
		respondError(c, http.StatusUnprocessableEntity, "promo_not_started", "promo code is not active yet")
	case errors.Is(err, domain.ErrPromoExpired):
		respondError(c, http.StatusUnprocessableEntity, "promo_expired", "promo code has expired")
	case errors.Is(err, domain.ErrPromoUsedUp):
		respondError(c, http.StatusUnprocessableEntity, "promo_used_up", "promo code usage limit reached")
	case errors.Is(err, domain.ErrPromoMinAmount):
		respondError(c, http.StatusUnprocessableEntity, "promo_min_amount", "order total is below the promo minimum")
	case errors.Is(err, domain.ErrDeliveryNotAvailable):
		respondError(c, http.StatusUnprocessableEntity, "delivery_not_available", "delivery is not available for this city")
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "invalid_transition", "status change is not allowed")
	case errors.Is(err, domain.ErrOrderNotCustom):
		respondError(c, http.StatusConflict, "not_custom_order", "order is not a custom order")
	case errors.Is(err, domain.ErrOrderNotDelivered):
		respondError(c, http.StatusConflict, "order_not_delivered", "order has not been delivered")
	case errors.Is(err, domain.ErrReviewExists):
		respondError(c, http.StatusConflict, "review_exists", "order is already reviewed")
	case errors.Is(err, domain.ErrInsufficientBonus):
		respondError(c, http.StatusConflict, "insufficient_bonus", "not enough bonus points")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, domain.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
