package messages

import "time"

// RateCardUpdated публикует админка после любой правки тарифа. Движок по
// нему сразу инвалидирует кэш резолюций, не дожидаясь истечения TTL.
type RateCardUpdated struct {
	RateCardID string `json:"rate_card_id"`

	// nil — платформенная карточка; затронуты fallback-резолюции всех
	// компаний, кэш чистится целиком.
	CompanyID *string `json:"company_id,omitempty"`

	Carrier     string `json:"carrier,omitempty"`
	ServiceType string `json:"service_type,omitempty"`

	Action    string    `json:"action"` // created | activated | deprecated | updated
	UpdatedAt time.Time `json:"updated_at"`
}
