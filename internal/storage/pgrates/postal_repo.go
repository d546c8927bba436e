package pgrates

import (
	"context"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func (s *Storage) GetDetails(ctx context.Context, pincode string) (*models.PostalDetails, error) {
	var d models.PostalDetails
	err := s.db.QueryRow(ctx, `
SELECT pincode, city, state, is_metro, is_remote
FROM postal_codes
WHERE pincode = $1
`, pincode).Scan(&d.Pincode, &d.City, &d.State, &d.IsMetro, &d.IsRemote)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPostalNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select postal code")
	}
	return &d, nil
}

// SeedPostalCodes заливает справочник пачкой (админский импорт CSV).
func (s *Storage) SeedPostalCodes(ctx context.Context, items []models.PostalDetails) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		if it.Pincode == "" {
			return errors.New("pincode is required")
		}
		_, err := tx.Exec(ctx, `
INSERT INTO postal_codes (pincode, city, state, is_metro, is_remote)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (pincode)
DO UPDATE SET
  city = EXCLUDED.city,
  state = EXCLUDED.state,
  is_metro = EXCLUDED.is_metro,
  is_remote = EXCLUDED.is_remote
`, it.Pincode, it.City, it.State, it.IsMetro, it.IsRemote)
		if err != nil {
			return errors.Wrap(err, "upsert postal code")
		}
	}

	return errors.Wrap(tx.Commit(ctx), "commit tx")
}
