package models

// Zone — грубая классификация "расстояния" между двумя пинкодами.
type Zone string

const (
	ZoneA Zone = "zoneA" // same city
	ZoneB Zone = "zoneB" // same state
	ZoneC Zone = "zoneC" // metro to metro across states
	ZoneD Zone = "zoneD" // rest of country
	ZoneE Zone = "zoneE" // designated remote/special codes
)

// Zone provenance. Carrier partners may compute zones on their own network
// topology; such overrides are recorded as "external_<provider>".
const (
	ZoneSourceLocal          = "local"
	ZoneSourceExternalPrefix = "external_"
)

type ZoneFlags struct {
	SameCity  bool
	SameState bool
	Metro     bool
	Remote    bool
}

var zoneFlags = map[Zone]ZoneFlags{
	ZoneA: {SameCity: true, SameState: true},
	ZoneB: {SameState: true},
	ZoneC: {Metro: true},
	ZoneD: {},
	ZoneE: {Remote: true},
}

func (z Zone) Valid() bool {
	_, ok := zoneFlags[z]
	return ok
}

func (z Zone) Flags() ZoneFlags {
	return zoneFlags[z]
}

// ZoneResult is what the classifier (or an external override) yields.
type ZoneResult struct {
	Zone      Zone   `json:"zone"`
	SameCity  bool   `json:"sameCity"`
	SameState bool   `json:"sameState"`
	Source    string `json:"source"`
}

// PostalDetails — метаданные пинкода из справочника.
type PostalDetails struct {
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	State   string `json:"state"`
	IsMetro bool   `json:"isMetro"`
	// Designated "special" codes (NE, island territories and the like)
	// that always price as ZoneE.
	IsRemote bool `json:"isRemote"`
}
