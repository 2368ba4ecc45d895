package entities

// FactKind identifies one of the six turn-indexed per-player metric series.
type FactKind string

const (
	FactPoints          FactKind = "points"
	FactYield           FactKind = "yield"
	FactMilitary        FactKind = "military"
	FactLegitimacy      FactKind = "legitimacy"
	FactFamilyOpinion   FactKind = "family_opinion"
	FactReligionOpinion FactKind = "religion_opinion"
)

// AllFactKinds lists every fact series in extraction order.
var AllFactKinds = []FactKind{
	FactPoints,
	FactYield,
	FactMilitary,
	FactLegitimacy,
	FactFamilyOpinion,
	FactReligionOpinion,
}

// TurnFact is one value of a fact series. Subcategory distinguishes entries
// within a kind (yield type, family, religion) and is empty for the scalar
// series. Values are stored exactly as the save records them: negative values
// (debt, unhappiness, disapproval) and 10x-scaled yield rates are preserved
// raw, never clamped or rescaled. At most one value exists per
// (match, player, kind, subcategory, turn).
type TurnFact struct {
	MatchID     int64    `json:"match_id"`
	PlayerNum   int      `json:"player_num"`
	Kind        FactKind `json:"kind"`
	Subcategory string   `json:"subcategory,omitempty"`
	Turn        int      `json:"turn"`
	Value       int      `json:"value"`
}
