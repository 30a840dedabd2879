package customorder

import (
	"context"
	"errors"
	"testing"

	"printshop/internal/domain"
)

type stubOrderRepo struct {
	stored       *domain.Order
	lastSubtotal float64
	lastTotal    float64
}

func (s *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	o.ID = 11
	s.stored = o
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ int64, status domain.Status) error {
	s.stored.Status = status
	return nil
}

func (s *stubOrderRepo) SetTotals(_ context.Context, _ int64, subtotal, total float64) error {
	s.lastSubtotal = subtotal
	s.lastTotal = total
	return nil
}

func (s *stubOrderRepo) NextOrderNumber(_ context.Context) (string, error) {
	return "ORD-20250615-2001", nil
}

type stubDetailsRepo struct {
	details   *domain.CustomOrderDetails
	lastNotes string
	lastURLs  []string
}

func (s *stubDetailsRepo) GetByOrderID(_ context.Context, _ int64) (*domain.CustomOrderDetails, error) {
	if s.details == nil {
		return nil, domain.ErrNotFound
	}
	return s.details, nil
}

func (s *stubDetailsRepo) SetAdminNotes(_ context.Context, _ int64, notes string) error {
	s.lastNotes = notes
	return nil
}

func (s *stubDetailsRepo) SetFileURLs(_ context.Context, _ int64, urls []string) error {
	s.lastURLs = urls
	if s.details != nil {
		s.details.FileURLs = urls
	}
	return nil
}

func TestSubmit_Defaults(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := New(orders, &stubDetailsRepo{})

	o, err := svc.Submit(context.Background(), SubmitInput{
		CustomerName:  "Анна",
		CustomerPhone: "+79007654321",
		Description:   "Wedding invitations, 200pcs, gold foil",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.OrderType != domain.OrderTypeCustom || o.Status != domain.StatusNew {
		t.Fatalf("type/status = %s/%s, want custom/new", o.OrderType, o.Status)
	}
	if o.DeliveryMethod != domain.DeliveryPickup || o.PaymentMethod != domain.PaymentCash {
		t.Fatalf("delivery/payment = %s/%s, want pickup/cash", o.DeliveryMethod, o.PaymentMethod)
	}
	if o.TotalPrice != 0 {
		t.Fatalf("total = %v, want 0 before quote", o.TotalPrice)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 1 {
		t.Fatalf("items = %+v, want single line with quantity 1", o.Items)
	}
	if o.Items[0].CustomItemName == nil || *o.Items[0].CustomItemName != "Custom item" {
		t.Fatalf("item name = %v, want default", o.Items[0].CustomItemName)
	}
	if o.CustomDetails == nil || o.CustomDetails.ClientDescription == nil {
		t.Fatal("custom details missing")
	}
}

func TestSubmit_RequiredFields(t *testing.T) {
	svc := New(&stubOrderRepo{}, &stubDetailsRepo{})

	cases := []SubmitInput{
		{CustomerPhone: "+79007654321", Description: "d"},
		{CustomerName: "Анна", Description: "d"},
		{CustomerName: "Анна", CustomerPhone: "+79007654321"},
	}
	for _, in := range cases {
		if _, err := svc.Submit(context.Background(), in); err == nil {
			t.Fatalf("expected error for %+v", in)
		}
	}
}

func TestConfirm(t *testing.T) {
	orders := &stubOrderRepo{stored: &domain.Order{
		ID:        11,
		OrderType: domain.OrderTypeCustom,
		Status:    domain.StatusNew,
	}}
	details := &stubDetailsRepo{}
	svc := New(orders, details)

	o, err := svc.Confirm(context.Background(), 11, 4999.999, "quoted by manager")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if o.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", o.Status)
	}
	if orders.lastSubtotal != 5000 || orders.lastTotal != 5000 {
		t.Fatalf("totals = %v/%v, want 5000/5000 after rounding", orders.lastSubtotal, orders.lastTotal)
	}
	if details.lastNotes != "quoted by manager" {
		t.Fatalf("notes = %q", details.lastNotes)
	}
}

func TestConfirm_Rejections(t *testing.T) {
	t.Run("non-positive price", func(t *testing.T) {
		svc := New(&stubOrderRepo{}, &stubDetailsRepo{})
		if _, err := svc.Confirm(context.Background(), 11, 0, ""); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("regular order", func(t *testing.T) {
		orders := &stubOrderRepo{stored: &domain.Order{
			ID:        11,
			OrderType: domain.OrderTypeRegular,
			Status:    domain.StatusNew,
		}}
		svc := New(orders, &stubDetailsRepo{})
		if _, err := svc.Confirm(context.Background(), 11, 100, ""); !errors.Is(err, domain.ErrOrderNotCustom) {
			t.Fatalf("err = %v, want ErrOrderNotCustom", err)
		}
	})

	t.Run("already confirmed", func(t *testing.T) {
		orders := &stubOrderRepo{stored: &domain.Order{
			ID:        11,
			OrderType: domain.OrderTypeCustom,
			Status:    domain.StatusConfirmed,
		}}
		svc := New(orders, &stubDetailsRepo{})
		if _, err := svc.Confirm(context.Background(), 11, 100, ""); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestAttachFiles_Appends(t *testing.T) {
	orders := &stubOrderRepo{stored: &domain.Order{
		ID:        11,
		OrderType: domain.OrderTypeCustom,
		Status:    domain.StatusNew,
	}}
	details := &stubDetailsRepo{details: &domain.CustomOrderDetails{
		OrderID:  11,
		FileURLs: []string{"https://cdn.example.com/a.pdf"},
	}}
	svc := New(orders, details)

	d, err := svc.AttachFiles(context.Background(), 11, []string{"https://cdn.example.com/b.pdf"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(d.FileURLs) != 2 || d.FileURLs[1] != "https://cdn.example.com/b.pdf" {
		t.Fatalf("urls = %v, want existing plus appended", d.FileURLs)
	}
}
