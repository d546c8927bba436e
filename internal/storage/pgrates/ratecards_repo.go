package pgrates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Find отдаёт кандидатов для тиеринга: активные карточки компании плюс
// платформенные. Карточка чужого перевозчика не пройдёт ни один тиер,
// поэтому срезаем её ещё в SQL; NULL в скоуп-колонке — generic, проходит
// всегда. Бизнес-логика выбора остаётся у резолвера.
func (s *Storage) Find(ctx context.Context, scope models.RateCardScope) ([]*models.RateCard, error) {
	rows, err := s.db.Query(ctx, `
SELECT doc
FROM rate_cards
WHERE status = $1
  AND (company_id = $2 OR company_id IS NULL)
  AND (carrier IS NULL OR carrier = $3)
  AND (service_type IS NULL OR service_type = $4)
`, models.RateCardStatusActive, scope.CompanyID, scope.Carrier, scope.ServiceType)
	if err != nil {
		return nil, errors.Wrap(err, "select rate cards")
	}
	defer rows.Close()

	var out []*models.RateCard
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "scan rate card")
		}
		var c models.RateCard
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, errors.Wrap(err, "decode rate card doc")
		}
		out = append(out, &c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// GetByID не фильтрует по статусу: явный запрос черновика или
// deprecated-карточки должен провалиться типизированно выше, а не
// выглядеть как "нет такой".
func (s *Storage) GetByID(ctx context.Context, id string) (*models.RateCard, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT doc FROM rate_cards WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrRateCardNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select rate card")
	}

	var c models.RateCard
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, errors.Wrap(err, "decode rate card doc")
	}
	return &c, nil
}

func (s *Storage) SaveRateCard(ctx context.Context, card *models.RateCard) error {
	if card.ID == "" {
		return errors.New("rate card id is required")
	}
	doc, err := json.Marshal(card)
	if err != nil {
		return errors.Wrap(err, "encode rate card doc")
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
INSERT INTO rate_cards (id, company_id, carrier, service_type, status, doc, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
ON CONFLICT (id)
DO UPDATE SET
  company_id = EXCLUDED.company_id,
  carrier = EXCLUDED.carrier,
  service_type = EXCLUDED.service_type,
  status = EXCLUDED.status,
  doc = EXCLUDED.doc,
  updated_at = EXCLUDED.updated_at
`, card.ID, card.CompanyID, card.Carrier, card.ServiceType, card.Status, doc, now)
	return errors.Wrap(err, "upsert rate card")
}
