package domain

import "time"

type DeliveryZone struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	Region           *string   `json:"region,omitempty"`
	DeliveryCost     float64   `json:"deliveryCost"`
	FreeDeliveryFrom *float64  `json:"freeDeliveryFrom,omitempty"`
	EstimatedDaysMin int       `json:"estimatedDaysMin"`
	EstimatedDaysMax int       `json:"estimatedDaysMax"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type PickupPoint struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Phone        *string   `json:"phone,omitempty"`
	WorkingHours string    `json:"workingHours"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DeliveryOption is one courier rate offered for a city.
type DeliveryOption struct {
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	EstimatedDays string  `json:"estimatedDays"`
}

type DeliveryCalculation struct {
	CourierOptions  []DeliveryOption `json:"courierOptions"`
	PickupPoints    []PickupPoint    `json:"pickupPoints"`
	HasPickupPoints bool             `json:"hasPickupPoints"`
}
