package gstlocal

import (
	"context"
	"strings"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
)

const defaultRatePercent = 18.0

// Calculator — локальный расчёт GST без похода во внешний сервис.
// Для деплоев с центральным налоговым сервисом есть taxhttp.
type Calculator struct {
	ratePercent float64
}

func New(ratePercent float64) *Calculator {
	if ratePercent <= 0 {
		ratePercent = defaultRatePercent
	}
	return &Calculator{ratePercent: ratePercent}
}

func (c *Calculator) Calculate(ctx context.Context, originState, destState string, amount float64) (models.TaxBreakup, error) {
	if strings.EqualFold(originState, destState) {
		half := models.Round2(amount * c.ratePercent / 100 / 2)
		return models.TaxBreakup{
			CGST:     half,
			SGST:     half,
			TotalGST: models.Round2(half + half),
		}, nil
	}
	igst := models.Round2(amount * c.ratePercent / 100)
	return models.TaxBreakup{
		IGST:     igst,
		TotalGST: igst,
	}, nil
}
