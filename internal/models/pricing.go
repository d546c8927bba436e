package models

import "math"

// Round2 rounds to paise. Все денежные величины в движке двухзнаковые.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PricingRequest — входные данные одного расчёта. Живёт один вызов.
type PricingRequest struct {
	CompanyID   string  `json:"companyId"`
	FromPincode string  `json:"fromPincode"`
	ToPincode   string  `json:"toPincode"`
	Weight      float64 `json:"weight"` // kg
	PaymentMode string  `json:"paymentMode"`
	OrderValue  float64 `json:"orderValue"`
	Carrier     string  `json:"carrier"`
	ServiceType string  `json:"serviceType"`

	RateCardID string `json:"rateCardId,omitempty"`

	// ExternalZone bypasses the classifier entirely (carrier-computed zone).
	ExternalZone         Zone   `json:"externalZone,omitempty"`
	ExternalZoneProvider string `json:"externalZoneProvider,omitempty"`

	// Strict demands an exact carrier+serviceType card and forbids fallback.
	Strict bool `json:"strict,omitempty"`
}

// TaxBreakup is the GST split returned by the tax collaborator.
// Same-state moves split into CGST+SGST, inter-state moves carry IGST.
type TaxBreakup struct {
	CGST     float64 `json:"cgst"`
	SGST     float64 `json:"sgst"`
	IGST     float64 `json:"igst"`
	TotalGST float64 `json:"totalGST"`
}

// ChargeBreakdown exposes every intermediate number of the composition.
// Downstream invoicing explains a price to a seller line by line with it,
// so it is part of the public contract.
type ChargeBreakdown struct {
	BaseCharge       float64 `json:"baseCharge"`
	ZoneCharge       float64 `json:"zoneCharge"`
	FuelCharge       float64 `json:"fuelCharge"`
	RemoteAreaCharge float64 `json:"remoteAreaCharge"`
	Subtotal         float64 `json:"subtotal"`
	CODCharge        float64 `json:"codCharge"`
}

type PricingResolution struct {
	MatchedLevel       string `json:"matchedLevel"`
	MatchedCarrier     string `json:"matchedCarrier,omitempty"`
	MatchedServiceType string `json:"matchedServiceType,omitempty"`
}

type PricingMetadata struct {
	RateCardID string            `json:"rateCardId"`
	Resolution PricingResolution `json:"pricingResolution"`
	Zone       Zone              `json:"zone"`
	ZoneSource string            `json:"zoneSource"`
	Breakdown  ChargeBreakdown   `json:"breakdown"`
}

// PricingResult — итог расчёта. CODCharge идёт отдельной строкой и не
// входит ни в налоговую базу, ни в Total (см. DESIGN.md, решение №1).
type PricingResult struct {
	Subtotal  float64         `json:"subtotal"`
	CODCharge float64         `json:"codCharge"`
	Tax       TaxBreakup      `json:"tax"`
	Total     float64         `json:"total"`
	Metadata  PricingMetadata `json:"metadata"`
}
