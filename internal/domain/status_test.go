package domain

import "testing"

func TestAllowedTransitions_CustomTable(t *testing.T) {
	cases := []struct {
		from Status
		want []Status
	}{
		{StatusNew, []Status{StatusCancelled}},
		{StatusConfirmed, []Status{StatusInProgress, StatusCancelled}},
		{StatusInProgress, []Status{StatusReady, StatusCancelled}},
		{StatusReady, []Status{StatusDelivered, StatusCancelled}},
		{StatusDelivered, []Status{}},
		{StatusCancelled, []Status{}},
	}
	for _, tc := range cases {
		got := AllowedTransitions(OrderTypeCustom, tc.from)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.from, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: expected %v, got %v", tc.from, tc.want, got)
			}
		}
	}
}

func TestAllowedTransitions_TotalOverStatuses(t *testing.T) {
	for _, orderType := range []string{OrderTypeRegular, OrderTypeCustom} {
		for _, s := range allStatuses {
			if got := AllowedTransitions(orderType, s); got == nil {
				t.Fatalf("%s/%s: expected non-nil transition set", orderType, s)
			}
		}
	}
	if got := AllowedTransitions(OrderTypeRegular, Status("bogus")); len(got) != 0 {
		t.Fatalf("unknown status must have no transitions, got %v", got)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(OrderTypeRegular, StatusNew, StatusConfirmed) {
		t.Fatal("regular new → confirmed must be legal")
	}
	if CanTransition(OrderTypeCustom, StatusNew, StatusConfirmed) {
		t.Fatal("custom new → confirmed must go through admin confirm, not a raw transition")
	}
	if CanTransition(OrderTypeRegular, StatusDelivered, StatusCancelled) {
		t.Fatal("delivered is terminal")
	}
	if !Terminal(OrderTypeCustom, StatusCancelled) {
		t.Fatal("cancelled is terminal")
	}
}

func TestBuildCart_Totals(t *testing.T) {
	price := func(v float64) *Product { return &Product{Price: v} }
	cart := BuildCart([]CartItem{
		{Quantity: 2, Product: price(0.1)},
		{Quantity: 1, Product: price(0.2)},
	})
	if cart.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", cart.TotalItems)
	}
	if cart.TotalPrice != 0.4 {
		t.Fatalf("expected 0.4 total, got %v", cart.TotalPrice)
	}
}

func TestBuildCategoryTree(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	tree := BuildCategoryTree([]Category{
		{ID: 1, Name: "root"},
		{ID: 2, Name: "child", ParentID: id(1)},
		{ID: 3, Name: "grandchild", ParentID: id(2)},
		{ID: 4, Name: "root2"},
	})
	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if len(tree[0].Children) != 1 || len(tree[0].Children[0].Children) != 1 {
		t.Fatalf("unexpected nesting %+v", tree)
	}
}
