package ratecards

import (
	"context"
	"sort"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/pkg/errors"
)

// Store — внешний документный стор тарифов. Отдаёт кандидатов по скоупу
// (карточки компании + платформенные), бизнес-тиеринг не применяет.
type Store interface {
	Find(ctx context.Context, scope models.RateCardScope) ([]*models.RateCard, error)
	GetByID(ctx context.Context, id string) (*models.RateCard, error)
}

// Resolution is a resolved card plus how specific the match was.
type Resolution struct {
	Card  *models.RateCard
	Level string
}

type tier struct {
	level string
	match func(c *models.RateCard) bool
}

type Resolver struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve picks the single applicable active card for the scope.
//
// Tiering, most specific first: company exact (carrier+serviceType) →
// company carrier default → company generic → the same three over platform
// cards (companyId == nil). Strict mode only accepts the exact tiers and
// fails with NO_RATE_FOR_CARRIER_SERVICE instead of falling back.
//
// Within a tier the newest effectiveDates.startDate wins; an exact tie is
// AMBIGUOUS_RATE_CARD — молча выбирать нечего, это деньги.
func (r *Resolver) Resolve(ctx context.Context, scope models.RateCardScope, strict bool) (*Resolution, error) {
	if scope.RateCardID != "" {
		return r.resolveExplicit(ctx, scope)
	}

	cards, err := r.store.Find(ctx, scope)
	if err != nil {
		return nil, errors.Wrap(err, "find rate cards")
	}

	now := r.now()
	eligible := cards[:0:0]
	for _, c := range cards {
		if c.IsActive() && effectiveAt(c, now) {
			eligible = append(eligible, c)
		}
	}

	for _, t := range r.tiers(scope, strict) {
		var matched []*models.RateCard
		for _, c := range eligible {
			if t.match(c) {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].EffectiveDates.StartDate.After(matched[j].EffectiveDates.StartDate)
		})
		if len(matched) > 1 && matched[0].EffectiveDates.StartDate.Equal(matched[1].EffectiveDates.StartDate) {
			return nil, models.NewError(models.ErrCodeAmbiguousRateCard,
				"rate cards %s and %s tie at level %s", matched[0].ID, matched[1].ID, t.level)
		}
		return &Resolution{Card: matched[0], Level: t.level}, nil
	}

	if strict {
		return nil, models.NewError(models.ErrCodeNoRateForCarrierService,
			"no exact rate for carrier=%s serviceType=%s", scope.Carrier, scope.ServiceType)
	}
	return nil, models.NewError(models.ErrCodeNoDefaultRateCard,
		"no rate card at any tier for company=%s", scope.CompanyID)
}

func (r *Resolver) resolveExplicit(ctx context.Context, scope models.RateCardScope) (*Resolution, error) {
	card, err := r.store.GetByID(ctx, scope.RateCardID)
	if errors.Is(err, models.ErrRateCardNotFound) {
		return nil, models.WrapError(err, models.ErrCodeNoDefaultRateCard, "rate card %s not found", scope.RateCardID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get rate card %s", scope.RateCardID)
	}
	if !card.IsActive() {
		return nil, models.NewError(models.ErrCodeRateCardNotActive,
			"rate card %s is %s", card.ID, card.Status)
	}
	if !coversScope(card, scope) {
		return nil, models.NewError(models.ErrCodeNoRateForCarrierService,
			"rate card %s does not cover company=%s carrier=%s serviceType=%s",
			card.ID, scope.CompanyID, scope.Carrier, scope.ServiceType)
	}
	return &Resolution{Card: card, Level: models.MatchLevelExplicit}, nil
}

// tiers builds the ranked predicate table for the scope. Strict mode keeps
// only the exact tiers.
func (r *Resolver) tiers(scope models.RateCardScope, strict bool) []tier {
	company := func(c *models.RateCard) bool {
		return c.CompanyID != nil && *c.CompanyID == scope.CompanyID
	}
	platform := func(c *models.RateCard) bool { return c.CompanyID == nil }
	exact := func(c *models.RateCard) bool {
		return strEq(c.Carrier, scope.Carrier) && strEq(c.ServiceType, scope.ServiceType)
	}
	carrierOnly := func(c *models.RateCard) bool {
		return strEq(c.Carrier, scope.Carrier) && c.ServiceType == nil
	}
	generic := func(c *models.RateCard) bool {
		return c.Carrier == nil && c.ServiceType == nil
	}

	all := []tier{
		{models.MatchLevelExact, and(company, exact)},
		{models.MatchLevelCarrierDefault, and(company, carrierOnly)},
		{models.MatchLevelCompanyDefault, and(company, generic)},
		{models.MatchLevelPlatformExact, and(platform, exact)},
		{models.MatchLevelPlatformCarrier, and(platform, carrierOnly)},
		{models.MatchLevelPlatformDefault, and(platform, generic)},
	}
	if !strict {
		return all
	}
	return []tier{all[0], all[3]}
}

func and(a, b func(c *models.RateCard) bool) func(c *models.RateCard) bool {
	return func(c *models.RateCard) bool { return a(c) && b(c) }
}

func strEq(p *string, v string) bool {
	return p != nil && v != "" && *p == v
}

func effectiveAt(c *models.RateCard, now time.Time) bool {
	if c.EffectiveDates.StartDate.After(now) {
		return false
	}
	if c.EffectiveDates.EndDate != nil && c.EffectiveDates.EndDate.Before(now) {
		return false
	}
	return true
}

// coversScope validates an explicitly requested card against the request.
// Nil scope fields on the card mean "any".
func coversScope(c *models.RateCard, scope models.RateCardScope) bool {
	if c.CompanyID != nil && *c.CompanyID != scope.CompanyID {
		return false
	}
	if c.Carrier != nil && scope.Carrier != "" && *c.Carrier != scope.Carrier {
		return false
	}
	if c.ServiceType != nil && scope.ServiceType != "" && *c.ServiceType != scope.ServiceType {
		return false
	}
	return true
}
