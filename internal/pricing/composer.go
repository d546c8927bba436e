package pricing

import (
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
)

// Compose строит стоимость перевозки по фиксированным шагам:
// базовый слэб → зона → топливный сбор → надбавка за удалённые зоны →
// минимальный чек. Шаги нельзя переставлять: проценты считаются от
// промежуточных сумм, а пол применяется после всех надбавок.
//
// COD и налог — отдельные коллабораторы, их подмешивает Service.
func Compose(card *models.RateCard, zone models.Zone, weight float64, carrier, serviceType string) (models.ChargeBreakdown, error) {
	slab, err := selectSlab(card, weight, carrier, serviceType)
	if err != nil {
		return models.ChargeBreakdown{}, err
	}
	base := models.Round2(slab.BasePrice)

	// Zone: flat addition and/or multiplier over the running subtotal.
	mult := 1.0
	if m, ok := card.ZoneMultipliers[string(zone)]; ok && m > 0 {
		mult = m
	}
	flat := card.ZoneRules[string(zone)]
	zoneCharge := models.Round2(base*mult + flat - base)
	running := models.Round2(base + zoneCharge)

	// Fuel percentage. "freight" is steps 1+2; "total" is the running
	// subtotal at this point. The branches are kept separate on purpose:
	// a step inserted before fuel must change exactly one of them.
	var fuel float64
	if card.FuelSurcharge > 0 {
		fuelBase := running
		if card.FuelSurchargeBase == models.FuelBaseFreight {
			fuelBase = models.Round2(base + zoneCharge)
		}
		fuel = models.Round2(fuelBase * card.FuelSurcharge / 100)
	}
	running = models.Round2(running + fuel)

	var remote float64
	if card.RemoteAreaEnabled && zone.Flags().Remote {
		remote = models.Round2(card.RemoteAreaSurcharge)
	}
	running = models.Round2(running + remote)

	// Minimum-call floor applies after every surcharge: flooring earlier
	// would let a below-floor slab escape once surcharges are layered on.
	if running < card.MinimumCall {
		running = models.Round2(card.MinimumCall)
	}

	return models.ChargeBreakdown{
		BaseCharge:       base,
		ZoneCharge:       zoneCharge,
		FuelCharge:       fuel,
		RemoteAreaCharge: remote,
		Subtotal:         running,
	}, nil
}

// selectSlab picks the covering weight slab, preferring carrier+serviceType
// slabs over carrier-only over generic — the same specificity ladder as
// card resolution, потому что одна карточка может нести ставки сразу
// нескольких перевозчиков.
func selectSlab(card *models.RateCard, weight float64, carrier, serviceType string) (*models.WeightSlab, error) {
	var (
		best     *models.WeightSlab
		bestRank = -1
	)
	for i := range card.BaseRates {
		s := &card.BaseRates[i]
		if weight < s.MinWeight || weight > s.MaxWeight {
			continue
		}
		rank, ok := slabRank(s, carrier, serviceType)
		if !ok {
			continue
		}
		if rank > bestRank {
			best, bestRank = s, rank
		}
	}
	if best == nil {
		return nil, models.NewError(models.ErrCodeNoWeightSlab,
			"no slab covers weight %.3fkg for carrier=%s serviceType=%s", weight, carrier, serviceType)
	}
	return best, nil
}

func slabRank(s *models.WeightSlab, carrier, serviceType string) (int, bool) {
	if s.Carrier != "" && s.Carrier != carrier {
		return 0, false
	}
	if s.ServiceType != "" && s.ServiceType != serviceType {
		return 0, false
	}
	rank := 0
	if s.Carrier != "" {
		rank++
	}
	if s.ServiceType != "" {
		rank++
	}
	return rank, true
}
