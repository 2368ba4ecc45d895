package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// seriesSpec describes how one fact series appears under a Player element.
// Scalar series are a bare list wrapper; keyed series nest one wrapper per
// subcategory under an outer element.
type seriesSpec struct {
	kind    entities.FactKind
	wrapper string // list wrapper (scalar) or outer element (keyed)
	entry   string // keyed series: per-subcategory element name
	keyAttr string // keyed series: attribute holding the subcategory
}

var factSeries = []seriesSpec{
	{kind: entities.FactPoints, wrapper: "PointsPerTurn"},
	{kind: entities.FactMilitary, wrapper: "MilitaryPower"},
	{kind: entities.FactLegitimacy, wrapper: "Legitimacy"},
	{kind: entities.FactYield, wrapper: "YieldRates", entry: "Yield", keyAttr: "type"},
	{kind: entities.FactFamilyOpinion, wrapper: "FamilyOpinions", entry: "Family", keyAttr: "name"},
	{kind: entities.FactReligionOpinion, wrapper: "ReligionOpinions", entry: "Religion", keyAttr: "name"},
}

// TurnFacts extracts every fact series for every player. Each value element
// is positional: turn = wrapper start (default 1) + position. Every value
// present in the source is emitted, including zeroes and negatives; yield
// rates stay at the save's 10x display scale.
func TurnFacts(root *archive.Node) ([]entities.TurnFact, error) {
	var facts []entities.TurnFact

	for i, player := range root.ChildrenNamed("Player") {
		for _, spec := range factSeries {
			wrapper := player.Child(spec.wrapper)
			if wrapper == nil {
				continue // series absent for this player
			}

			if spec.entry == "" {
				series, err := seriesValues(wrapper, i, spec.kind, "")
				if err != nil {
					return nil, err
				}
				facts = append(facts, series...)
				continue
			}

			for _, sub := range wrapper.ChildrenNamed(spec.entry) {
				key := sub.Attr(spec.keyAttr)
				if key == "" {
					return nil, fmt.Errorf("player %d: %s entry missing %s attribute", i, spec.wrapper, spec.keyAttr)
				}
				series, err := seriesValues(sub, i, spec.kind, key)
				if err != nil {
					return nil, err
				}
				facts = append(facts, series...)
			}
		}
	}

	return facts, nil
}

// seriesValues reads one list wrapper of <i> elements into facts. The
// optional start attribute shifts the first turn; some exports begin at
// turn 2, which the importer later surfaces as a quality flag.
func seriesValues(wrapper *archive.Node, saveIndex int, kind entities.FactKind, subcategory string) ([]entities.TurnFact, error) {
	start, present, err := wrapper.IntAttr("start")
	if err != nil {
		return nil, fmt.Errorf("player %d %s: %w", saveIndex, kind, err)
	}
	if !present {
		start = 1
	}

	values := wrapper.ChildrenNamed("i")
	facts := make([]entities.TurnFact, 0, len(values))
	for pos, v := range values {
		val, err := v.Int()
		if err != nil {
			return nil, fmt.Errorf("player %d %s turn %d: %w", saveIndex, kind, start+pos, err)
		}
		facts = append(facts, entities.TurnFact{
			PlayerNum:   saveIndex,
			Kind:        kind,
			Subcategory: subcategory,
			Turn:        start + pos,
			Value:       val,
		})
	}
	return facts, nil
}
