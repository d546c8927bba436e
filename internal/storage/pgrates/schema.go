package pgrates

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	// Тариф лежит целиком в doc (JSONB): слэбы и зонные правила админка
	// меняет часто, миграции на каждую — расточительство. Скоуп-колонки
	// дублируют поля документа только ради выборки кандидатов.
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS rate_cards (
  id TEXT PRIMARY KEY,
  company_id TEXT NULL,
  carrier TEXT NULL,
  service_type TEXT NULL,
  status TEXT NOT NULL,
  doc JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_cards_company_status ON rate_cards(company_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_cards_platform ON rate_cards(status) WHERE company_id IS NULL`,
		`
CREATE TABLE IF NOT EXISTS postal_codes (
  pincode TEXT PRIMARY KEY,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  is_metro BOOLEAN NOT NULL DEFAULT FALSE,
  is_remote BOOLEAN NOT NULL DEFAULT FALSE
)`,
		`CREATE INDEX IF NOT EXISTS idx_postal_codes_state ON postal_codes(state)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
