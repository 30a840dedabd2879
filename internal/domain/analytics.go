package domain

type DashboardStats struct {
	Revenue        float64          `json:"revenue"`
	OrderCount     int64            `json:"orderCount"`
	NewUsers       int64            `json:"newUsers"`
	PendingReviews int64            `json:"pendingReviews"`
	OrdersByStatus map[Status]int64 `json:"ordersByStatus"`
	TopProducts    []TopProduct     `json:"topProducts"`
}

type TopProduct struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Sold      int64   `json:"sold"`
	Revenue   float64 `json:"revenue"`
}
