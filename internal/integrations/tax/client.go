package tax

import (
	"context"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
)

// Calculator — внешний расчёт GST. Возвращает сплит CGST/SGST для
// внутриштатных перевозок и IGST для межштатных.
type Calculator interface {
	Calculate(ctx context.Context, originState, destState string, amount float64) (models.TaxBreakup, error)
}
