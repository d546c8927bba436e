package messages

import (
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
)

// PricingCalculated — аудит каждой успешной котировки. Его читает
// инвойсинг: ему нужна построчная разбивка цены.
type PricingCalculated struct {
	CompanyID   string  `json:"company_id"`
	FromPincode string  `json:"from_pincode"`
	ToPincode   string  `json:"to_pincode"`
	Weight      float64 `json:"weight"`
	PaymentMode string  `json:"payment_mode"`
	Carrier     string  `json:"carrier,omitempty"`
	ServiceType string  `json:"service_type,omitempty"`

	Result models.PricingResult `json:"result"`

	CalculatedAt time.Time `json:"calculated_at"`
}
