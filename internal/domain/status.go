package domain

// Status is an order lifecycle state. The transition tables below are
// the single source of truth for both server-side validation and the
// admin legal-moves listing.
type Status string

const (
	StatusNew        Status = "new"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusNew, StatusConfirmed, StatusInProgress,
	StatusReady, StatusDelivered, StatusCancelled,
}

// customTransitions: custom orders wait for an admin confirm step, so
// from "new" the only direct move is cancellation.
var customTransitions = map[Status][]Status{
	StatusNew:        {StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// regularTransitions: catalog orders are confirmed directly.
var regularTransitions = map[Status][]Status{
	StatusNew:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ValidStatus(s Status) bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next statuses for an order.
// The function is total over valid statuses: terminal states return an
// empty, non-nil slice.
func AllowedTransitions(orderType string, from Status) []Status {
	table := regularTransitions
	if orderType == OrderTypeCustom {
		table = customTransitions
	}
	next, ok := table[from]
	if !ok {
		return []Status{}
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from→to is legal for the order type.
func CanTransition(orderType string, from, to Status) bool {
	for _, next := range AllowedTransitions(orderType, from) {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist.
func Terminal(orderType string, s Status) bool {
	return len(AllowedTransitions(orderType, s)) == 0
}
