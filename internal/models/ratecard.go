package models

import "time"

// Статусы карточки тарифов. Только active участвует в подборе.
const (
	RateCardStatusDraft      = "draft"
	RateCardStatusActive     = "active"
	RateCardStatusDeprecated = "deprecated"
)

const (
	PaymentModePrepaid = "prepaid"
	PaymentModeCOD     = "cod"
)

// FuelSurchargeBase selects what the fuel percentage is applied to.
const (
	FuelBaseFreight = "freight"
	FuelBaseTotal   = "total"
)

const (
	CODChargeFlat       = "flat"
	CODChargePercentage = "percentage"
)

// WeightSlab maps a weight range to a base price. A slab may narrow the
// card's own scope with its own carrier/serviceType.
type WeightSlab struct {
	MinWeight   float64 `json:"minWeight"`
	MaxWeight   float64 `json:"maxWeight"`
	BasePrice   float64 `json:"basePrice"`
	Carrier     string  `json:"carrier,omitempty"`
	ServiceType string  `json:"serviceType,omitempty"`
}

// CODSlab maps an order-value range to a collection charge.
type CODSlab struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"value"`
	Type  string  `json:"type"` // flat | percentage
}

type EffectiveDates struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// RateCard — версионированный прайс-контракт. Движок его только читает:
// создание и активация живут в админке, снаружи этого ядра.
//
// CompanyID == nil means a platform-wide default card; Carrier/ServiceType
// == nil mean "any carrier" / "any service level".
type RateCard struct {
	ID          string  `json:"id"`
	CompanyID   *string `json:"companyId,omitempty"`
	Carrier     *string `json:"carrier,omitempty"`
	ServiceType *string `json:"serviceType,omitempty"`

	BaseRates       []WeightSlab       `json:"baseRates"`
	ZoneRules       map[string]float64 `json:"zoneRules,omitempty"`       // flat addition per zone
	ZoneMultipliers map[string]float64 `json:"zoneMultipliers,omitempty"` // multiplier per zone

	FuelSurcharge     float64 `json:"fuelSurcharge"` // percent
	FuelSurchargeBase string  `json:"fuelSurchargeBase,omitempty"`

	CODSurcharges []CODSlab `json:"codSurcharges,omitempty"`

	MinimumCall         float64 `json:"minimumCall"`
	RemoteAreaEnabled   bool    `json:"remoteAreaEnabled"`
	RemoteAreaSurcharge float64 `json:"remoteAreaSurcharge"`

	Status         string         `json:"status"`
	EffectiveDates EffectiveDates `json:"effectiveDates"`
}

func (rc *RateCard) IsActive() bool {
	return rc != nil && rc.Status == RateCardStatusActive
}

// RateCardScope — входные данные подбора карточки.
type RateCardScope struct {
	CompanyID   string
	Carrier     string
	ServiceType string
	RateCardID  string // explicit id bypasses tiering
}

// Matched resolution levels, most specific first.
const (
	MatchLevelExplicit        = "explicit"
	MatchLevelExact           = "exact"
	MatchLevelCarrierDefault  = "carrier_default"
	MatchLevelCompanyDefault  = "company_default"
	MatchLevelPlatformExact   = "platform_exact"
	MatchLevelPlatformCarrier = "platform_carrier"
	MatchLevelPlatformDefault = "platform_default"
)
