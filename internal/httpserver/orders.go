package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"printshop/internal/domain"
	customordersvc "printshop/internal/service/customorder"
	ordersvc "printshop/internal/service/order"

	"github.com/gin-gonic/gin"
)

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	Transition(ctx context.Context, id int64, to domain.Status) (*domain.Order, error)
	AllowedTransitions(ctx context.Context, id int64) ([]domain.Status, error)
	SetTracking(ctx context.Context, id int64, trackingNumber string) (*domain.Order, error)
	SetPaid(ctx context.Context, id int64, paid bool) (*domain.Order, error)
}

type customOrderService interface {
	Submit(ctx context.Context, in customordersvc.SubmitInput) (*domain.Order, error)
	Confirm(ctx context.Context, orderID int64, price float64, adminNotes string) (*domain.Order, error)
	SetAdminNotes(ctx context.Context, orderID int64, notes string) error
	AttachFiles(ctx context.Context, orderID int64, urls []string) (*domain.CustomOrderDetails, error)
	Details(ctx context.Context, orderID int64) (*domain.CustomOrderDetails, error)
}

func createOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		req.UserID = optionalUserID(c)
		o, err := orders.Create(c.Request.Context(), req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, o)
	}
}

// respondOrderError keeps checkout validation failures at 400 instead
// of the generic 500 fallback.
func respondOrderError(c *gin.Context, err error) {
	if isDomainError(err) {
		respondServiceError(c, err)
		return
	}
	respondValidation(c, err.Error())
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrNotFound, domain.ErrAlreadyExists, domain.ErrProductInactive,
		domain.ErrInsufficientStock, domain.ErrPromoInactive, domain.ErrPromoNotStarted,
		domain.ErrPromoExpired, domain.ErrPromoUsedUp, domain.ErrPromoMinAmount,
		domain.ErrDeliveryNotAvailable, domain.ErrInvalidTransition, domain.ErrOrderNotCustom,
		domain.ErrOrderNotDelivered, domain.ErrReviewExists, domain.ErrInsufficientBonus,
		domain.ErrInvalidCredentials, domain.ErrInvalidToken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func trackOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.GetByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

func ownOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		list, err := orders.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func adminListOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.OrderFilter{
			Status:    domain.Status(c.Query("status")),
			OrderType: c.Query("type"),
			Search:    c.Query("search"),
		}
		filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
		list, total, err := orders.List(c.Request.Context(), filter)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondPage(c, list, filter.Page, filter.Limit, total)
	}
}

func adminGetOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := orders.Get(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

// orderTransitionsHandler returns the legal next statuses for an
// order, the menu the detail screen turns into action buttons.
func orderTransitionsHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		moves, err := orders.AllowedTransitions(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, moves)
	}
}

func orderStatusHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "status required")
			return
		}
		st := domain.Status(req.Status)
		if !domain.ValidStatus(st) {
			respondValidation(c, "unknown status")
			return
		}
		o, err := orders.Transition(c.Request.Context(), id, st)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

func orderTrackingHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			TrackingNumber string `json:"trackingNumber" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "trackingNumber required")
			return
		}
		o, err := orders.SetTracking(c.Request.Context(), id, req.TrackingNumber)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

func orderPaidHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			IsPaid *bool `json:"isPaid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "isPaid required")
			return
		}
		o, err := orders.SetPaid(c.Request.Context(), id, *req.IsPaid)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

func submitCustomOrderHandler(customOrders customOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customordersvc.SubmitInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		req.UserID = optionalUserID(c)
		o, err := customOrders.Submit(c.Request.Context(), req)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		respondData(c, http.StatusCreated, o)
	}
}

func confirmCustomOrderHandler(customOrders customOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Price      float64 `json:"price" binding:"required,gt=0"`
			AdminNotes string  `json:"adminNotes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "price required")
			return
		}
		o, err := customOrders.Confirm(c.Request.Context(), id, req.Price, req.AdminNotes)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, o)
	}
}

func customOrderNotesHandler(customOrders customOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			AdminNotes string `json:"adminNotes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		if err := customOrders.SetAdminNotes(c.Request.Context(), id, req.AdminNotes); err != nil {
			respondServiceError(c, err)
			return
		}
		details, err := customOrders.Details(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, details)
	}
}

func customOrderFilesHandler(customOrders customOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			URLs []string `json:"urls" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "urls required")
			return
		}
		details, err := customOrders.AttachFiles(c.Request.Context(), id, req.URLs)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, details)
	}
}
