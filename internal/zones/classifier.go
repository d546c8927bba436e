package zones

import (
	"context"
	"strings"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/pkg/errors"
)

// PostalLookup — справочник пинкодов (город/штат/метро/спец-коды).
type PostalLookup interface {
	GetDetails(ctx context.Context, pincode string) (*models.PostalDetails, error)
}

type rule struct {
	zone  models.Zone
	match func(from, to *models.PostalDetails) bool
}

// Ordered decision table, first match wins. Priority changes are a one-line
// diff here instead of nested conditionals.
//
// Rules 3 and 4 require both endpoints non-remote, otherwise the remote
// rule below them would be unreachable for cross-state moves.
var defaultRules = []rule{
	{models.ZoneA, func(f, t *models.PostalDetails) bool {
		return sameState(f, t) && strings.EqualFold(f.City, t.City)
	}},
	{models.ZoneB, func(f, t *models.PostalDetails) bool {
		return sameState(f, t)
	}},
	{models.ZoneC, func(f, t *models.PostalDetails) bool {
		return !f.IsRemote && !t.IsRemote && (f.IsMetro || t.IsMetro)
	}},
	{models.ZoneD, func(f, t *models.PostalDetails) bool {
		return !f.IsRemote && !t.IsRemote
	}},
	{models.ZoneE, func(f, t *models.PostalDetails) bool {
		return true
	}},
}

func sameState(f, t *models.PostalDetails) bool {
	return strings.EqualFold(f.State, t.State)
}

// Classifier — чистая функция (fromPincode, toPincode) -> зона.
type Classifier struct {
	postal PostalLookup
	rules  []rule
}

func New(postal PostalLookup) *Classifier {
	return &Classifier{postal: postal, rules: defaultRules}
}

// Classify resolves the pricing zone for a postal-code pair. Unknown codes
// fail with INVALID_PINCODE; there is no default zone to fall back to.
func (c *Classifier) Classify(ctx context.Context, fromPincode, toPincode string) (models.ZoneResult, error) {
	from, err := c.getDetails(ctx, fromPincode)
	if err != nil {
		return models.ZoneResult{}, err
	}
	to, err := c.getDetails(ctx, toPincode)
	if err != nil {
		return models.ZoneResult{}, err
	}

	for _, r := range c.rules {
		if r.match(from, to) {
			return models.ZoneResult{
				Zone:      r.zone,
				SameCity:  r.zone == models.ZoneA,
				SameState: sameState(from, to),
				Source:    models.ZoneSourceLocal,
			}, nil
		}
	}
	// The table ends with a catch-all, so this is unreachable.
	return models.ZoneResult{}, errors.Errorf("no zone rule matched %s -> %s", fromPincode, toPincode)
}

func (c *Classifier) getDetails(ctx context.Context, pincode string) (*models.PostalDetails, error) {
	if pincode == "" {
		return nil, models.NewError(models.ErrCodeInvalidPincode, "pincode is empty")
	}
	d, err := c.postal.GetDetails(ctx, pincode)
	if errors.Is(err, models.ErrPostalNotFound) {
		return nil, models.WrapError(err, models.ErrCodeInvalidPincode, "unknown pincode %s", pincode)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "postal lookup %s", pincode)
	}
	return d, nil
}

// External builds the result for a carrier-supplied zone override; the
// classifier itself is bypassed and provenance records the provider.
func External(zone models.Zone, provider string) models.ZoneResult {
	if provider == "" {
		provider = "carrier"
	}
	f := zone.Flags()
	return models.ZoneResult{
		Zone:      zone,
		SameCity:  f.SameCity,
		SameState: f.SameState,
		Source:    models.ZoneSourceExternalPrefix + provider,
	}
}
