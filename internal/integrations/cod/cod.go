package cod

import (
	"context"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
)

// Calculator — расчёт сбора за наложенный платёж. Слэбы приходят из
// карточки тарифов, сам расчёт — внешний коллаборатор.
type Calculator interface {
	Calculate(ctx context.Context, orderValue float64, slabs []models.CODSlab) (float64, error)
}

// SlabCalculator walks the card's ordered slab table, first covering slab
// wins. Max <= 0 means the slab is open-ended upward. A value no slab
// covers carries no collection surcharge.
type SlabCalculator struct{}

func NewSlabCalculator() *SlabCalculator { return &SlabCalculator{} }

func (c *SlabCalculator) Calculate(ctx context.Context, orderValue float64, slabs []models.CODSlab) (float64, error) {
	for _, s := range slabs {
		if orderValue < s.Min {
			continue
		}
		if s.Max > 0 && orderValue > s.Max {
			continue
		}
		if s.Type == models.CODChargePercentage {
			return models.Round2(orderValue * s.Value / 100), nil
		}
		return models.Round2(s.Value), nil
	}
	return 0, nil
}
