package domain

import "time"

// LoyaltySettings is a single-row configuration for the bonus program.
type LoyaltySettings struct {
	ID             int64     `json:"id"`
	AccrualPercent float64   `json:"accrualPercent"`
	MaxRedeemShare float64   `json:"maxRedeemShare"`
	ReferralBonus  float64   `json:"referralBonus"`
	IsEnabled      bool      `json:"isEnabled"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
