package customorder

import (
	"context"
	"errors"
	"math"
	"strings"

	"printshop/internal/domain"
)

type Service struct {
	orders  orderRepo
	details detailsRepo
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	SetTotals(ctx context.Context, id int64, subtotal, total float64) error
	NextOrderNumber(ctx context.Context) (string, error)
}

type detailsRepo interface {
	GetByOrderID(ctx context.Context, orderID int64) (*domain.CustomOrderDetails, error)
	SetAdminNotes(ctx context.Context, orderID int64, notes string) error
	SetFileURLs(ctx context.Context, orderID int64, urls []string) error
}

func New(orders orderRepo, details detailsRepo) *Service {
	return &Service{orders: orders, details: details}
}

type SubmitInput struct {
	UserID        *int64   `json:"-"`
	CustomerName  string   `json:"customerName"`
	CustomerPhone string   `json:"customerPhone"`
	CustomerEmail *string  `json:"customerEmail,omitempty"`
	Description   string   `json:"description"`
	ItemName      string   `json:"itemName"`
	FileURLs      []string `json:"fileUrls,omitempty"`
}

// Submit creates a custom order request. It carries no price until an
// admin confirms it with a quote.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, errors.New("customer name required")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return nil, errors.New("customer phone required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, errors.New("description required")
	}
	itemName := strings.TrimSpace(in.ItemName)
	if itemName == "" {
		itemName = "Custom item"
	}
	description := strings.TrimSpace(in.Description)

	number, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		OrderNumber:    number,
		UserID:         in.UserID,
		OrderType:      domain.OrderTypeCustom,
		Status:         domain.StatusNew,
		DeliveryMethod: domain.DeliveryPickup,
		PaymentMethod:  domain.PaymentCash,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:  in.CustomerEmail,
		Items: []domain.OrderItem{{
			CustomItemName: &itemName,
			Quantity:       1,
		}},
		CustomDetails: &domain.CustomOrderDetails{
			ClientDescription: &description,
			FileURLs:          in.FileURLs,
		},
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, o.ID)
}

// Confirm sets the quoted price on a new custom order and moves it to
// confirmed in one step.
func (s *Service) Confirm(ctx context.Context, orderID int64, price float64, adminNotes string) (*domain.Order, error) {
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.OrderType != domain.OrderTypeCustom {
		return nil, domain.ErrOrderNotCustom
	}
	// new -> confirmed exists only through this quote step, the generic
	// transition table does not list it for custom orders.
	if o.Status != domain.StatusNew {
		return nil, domain.ErrInvalidTransition
	}

	price = math.Round(price*100) / 100
	if err := s.orders.SetTotals(ctx, orderID, price, price); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, domain.StatusConfirmed); err != nil {
		return nil, err
	}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		if err := s.details.SetAdminNotes(ctx, orderID, notes); err != nil {
			return nil, err
		}
	}
	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) SetAdminNotes(ctx context.Context, orderID int64, notes string) error {
	if err := s.requireCustom(ctx, orderID); err != nil {
		return err
	}
	return s.details.SetAdminNotes(ctx, orderID, strings.TrimSpace(notes))
}

// AttachFiles appends uploaded file URLs to the order's details.
func (s *Service) AttachFiles(ctx context.Context, orderID int64, urls []string) (*domain.CustomOrderDetails, error) {
	if len(urls) == 0 {
		return nil, errors.New("no files")
	}
	if err := s.requireCustom(ctx, orderID); err != nil {
		return nil, err
	}
	d, err := s.details.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	merged := append(append([]string{}, d.FileURLs...), urls...)
	if err := s.details.SetFileURLs(ctx, orderID, merged); err != nil {
		return nil, err
	}
	return s.details.GetByOrderID(ctx, orderID)
}

func (s *Service) Details(ctx context.Context, orderID int64) (*domain.CustomOrderDetails, error) {
	return s.details.GetByOrderID(ctx, orderID)
}

func (s *Service) requireCustom(ctx context.Context, orderID int64) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.OrderType != domain.OrderTypeCustom {
		return domain.ErrOrderNotCustom
	}
	return nil
}
