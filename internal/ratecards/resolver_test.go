package ratecards

import (
	"context"
	"testing"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	cards   []*models.RateCard
	findErr error
}

func (f *fakeStore) Find(ctx context.Context, scope models.RateCardScope) ([]*models.RateCard, error) {
	return f.cards, f.findErr
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.RateCard, error) {
	for _, c := range f.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.ErrRateCardNotFound
}

func ptr(s string) *string { return &s }

func card(id string, companyID, carrier, serviceType *string, start time.Time) *models.RateCard {
	return &models.RateCard{
		ID:          id,
		CompanyID:   companyID,
		Carrier:     carrier,
		ServiceType: serviceType,
		Status:      models.RateCardStatusActive,
		EffectiveDates: models.EffectiveDates{
			StartDate: start,
		},
	}
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func scope() models.RateCardScope {
	return models.RateCardScope{CompanyID: "c1", Carrier: "delhivery", ServiceType: "surface"}
}

// fullLadder строит по активной карточке на каждом из шести уровней.
func fullLadder() []*models.RateCard {
	return []*models.RateCard{
		card("exact", ptr("c1"), ptr("delhivery"), ptr("surface"), t0),
		card("carrier", ptr("c1"), ptr("delhivery"), nil, t0),
		card("company", ptr("c1"), nil, nil, t0),
		card("p-exact", nil, ptr("delhivery"), ptr("surface"), t0),
		card("p-carrier", nil, ptr("delhivery"), nil, t0),
		card("p-default", nil, nil, nil, t0),
	}
}

func TestResolver_TierFallbackOrder(t *testing.T) {
	cards := fullLadder()
	levels := []string{
		models.MatchLevelExact,
		models.MatchLevelCarrierDefault,
		models.MatchLevelCompanyDefault,
		models.MatchLevelPlatformExact,
		models.MatchLevelPlatformCarrier,
		models.MatchLevelPlatformDefault,
	}

	// Снимаем по одному верхнему уровню и смотрим, куда падает подбор.
	for i := range cards {
		r := New(&fakeStore{cards: cards[i:]})
		res, err := r.Resolve(context.Background(), scope(), false)
		require.NoError(t, err)
		require.Equal(t, cards[i].ID, res.Card.ID)
		require.Equal(t, levels[i], res.Level)
	}
}

func TestResolver_NoCardAnywhere(t *testing.T) {
	r := New(&fakeStore{})
	_, err := r.Resolve(context.Background(), scope(), false)
	require.Equal(t, models.ErrCodeNoDefaultRateCard, models.CodeOf(err))
}

func TestResolver_StrictMissDoesNotFallBack(t *testing.T) {
	r := New(&fakeStore{cards: []*models.RateCard{
		card("carrier", ptr("c1"), ptr("delhivery"), nil, t0),
		card("company", ptr("c1"), nil, nil, t0),
		card("p-default", nil, nil, nil, t0),
	}})

	_, err := r.Resolve(context.Background(), scope(), true)
	require.Equal(t, models.ErrCodeNoRateForCarrierService, models.CodeOf(err))

	// без strict те же карточки дают carrier default
	res, err := r.Resolve(context.Background(), scope(), false)
	require.NoError(t, err)
	require.Equal(t, models.MatchLevelCarrierDefault, res.Level)
}

func TestResolver_StrictAcceptsPlatformExact(t *testing.T) {
	r := New(&fakeStore{cards: []*models.RateCard{
		card("p-exact", nil, ptr("delhivery"), ptr("surface"), t0),
	}})

	res, err := r.Resolve(context.Background(), scope(), true)
	require.NoError(t, err)
	require.Equal(t, models.MatchLevelPlatformExact, res.Level)
}

func TestResolver_NewestStartDateWins(t *testing.T) {
	old := card("old", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	fresh := card("fresh", ptr("c1"), ptr("delhivery"), ptr("surface"), t0.AddDate(0, 3, 0))
	r := New(&fakeStore{cards: []*models.RateCard{old, fresh}})

	res, err := r.Resolve(context.Background(), scope(), false)
	require.NoError(t, err)
	require.Equal(t, "fresh", res.Card.ID)
}

func TestResolver_EqualStartDateIsAmbiguous(t *testing.T) {
	a := card("a", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	b := card("b", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	r := New(&fakeStore{cards: []*models.RateCard{a, b}})

	_, err := r.Resolve(context.Background(), scope(), false)
	require.Equal(t, models.ErrCodeAmbiguousRateCard, models.CodeOf(err))
}

func TestResolver_IgnoresInactiveAndOutOfWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	draft := card("draft", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	draft.Status = models.RateCardStatusDraft
	deprecated := card("deprecated", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	deprecated.Status = models.RateCardStatusDeprecated
	future := card("future", ptr("c1"), ptr("delhivery"), ptr("surface"), now.AddDate(0, 1, 0))
	expired := card("expired", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)
	end := t0.AddDate(0, 1, 0)
	expired.EffectiveDates.EndDate = &end
	live := card("live", ptr("c1"), ptr("delhivery"), ptr("surface"), t0)

	r := New(&fakeStore{cards: []*models.RateCard{draft, deprecated, future, expired, live}})
	r.now = func() time.Time { return now }

	res, err := r.Resolve(context.Background(), scope(), false)
	require.NoError(t, err)
	require.Equal(t, "live", res.Card.ID)
}

func TestResolver_ExplicitID(t *testing.T) {
	exact := card("exact", ptr("c1"), ptr("delhivery"), ptr("surface"), t0.AddDate(1, 0, 0))
	special := card("special", ptr("c1"), nil, nil, t0)
	r := New(&fakeStore{cards: []*models.RateCard{exact, special}})

	sc := scope()
	sc.RateCardID = "special"

	// явный id обходит тиеринг: побеждает не самый специфичный exact
	res, err := r.Resolve(context.Background(), sc, false)
	require.NoError(t, err)
	require.Equal(t, "special", res.Card.ID)
	require.Equal(t, models.MatchLevelExplicit, res.Level)
}

func TestResolver_ExplicitID_Failures(t *testing.T) {
	draft := card("draft", ptr("c1"), nil, nil, t0)
	draft.Status = models.RateCardStatusDraft
	foreign := card("foreign", ptr("c2"), nil, nil, t0)
	wrongCarrier := card("wrong-carrier", ptr("c1"), ptr("bluedart"), nil, t0)
	r := New(&fakeStore{cards: []*models.RateCard{draft, foreign, wrongCarrier}})

	cases := []struct {
		id   string
		code models.ErrorCode
	}{
		{"missing", models.ErrCodeNoDefaultRateCard},
		{"draft", models.ErrCodeRateCardNotActive},
		{"foreign", models.ErrCodeNoRateForCarrierService},
		{"wrong-carrier", models.ErrCodeNoRateForCarrierService},
	}
	for _, tc := range cases {
		sc := scope()
		sc.RateCardID = tc.id
		_, err := r.Resolve(context.Background(), sc, false)
		require.Equal(t, tc.code, models.CodeOf(err), "id=%s", tc.id)
	}
}

func TestResolver_EmptyCarrierMatchesGenericOnly(t *testing.T) {
	r := New(&fakeStore{cards: fullLadder()})

	sc := models.RateCardScope{CompanyID: "c1"}
	res, err := r.Resolve(context.Background(), sc, false)
	require.NoError(t, err)
	require.Equal(t, "company", res.Card.ID)
	require.Equal(t, models.MatchLevelCompanyDefault, res.Level)
}
