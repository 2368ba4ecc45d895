package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becked/prospector-sub006/internal/domain/entities"
)

func factsByKind(facts []entities.TurnFact, playerNum int, kind entities.FactKind, sub string) []entities.TurnFact {
	var out []entities.TurnFact
	for _, f := range facts {
		if f.PlayerNum == playerNum && f.Kind == kind && f.Subcategory == sub {
			out = append(out, f)
		}
	}
	return out
}

func TestTurnFacts(t *testing.T) {
	facts, err := TurnFacts(parseFixture(t, fixture))
	require.NoError(t, err)

	t.Run("scalar series positional from turn 1", func(t *testing.T) {
		points := factsByKind(facts, 0, entities.FactPoints, "")
		require.Len(t, points, 4)
		assert.Equal(t, 1, points[0].Turn)
		assert.Equal(t, 10, points[0].Value)
		assert.Equal(t, 4, points[3].Turn)
		assert.Equal(t, 18, points[3].Value)
	})

	t.Run("negative values stored verbatim", func(t *testing.T) {
		maintenance := factsByKind(facts, 0, entities.FactYield, "YIELD_MAINTENANCE")
		require.Len(t, maintenance, 4)
		assert.Equal(t, -15, maintenance[0].Value)
		assert.Equal(t, 0, maintenance[2].Value) // zero kept, no filtering

		opinions := factsByKind(facts, 0, entities.FactFamilyOpinion, "FAMILY_JULII")
		require.Len(t, opinions, 4)
		assert.Equal(t, -5, opinions[2].Value)
	})

	t.Run("yield rates stay at save scale", func(t *testing.T) {
		// The save stores 10x display values; storage preserves them raw.
		growth := factsByKind(facts, 0, entities.FactYield, "YIELD_GROWTH")
		require.Len(t, growth, 4)
		assert.Equal(t, 40, growth[0].Value)
	})

	t.Run("series may start after turn 1", func(t *testing.T) {
		legitimacy := factsByKind(facts, 0, entities.FactLegitimacy, "")
		require.Len(t, legitimacy, 3)
		assert.Equal(t, 2, legitimacy[0].Turn)
		assert.Equal(t, 4, legitimacy[2].Turn)
	})

	t.Run("absent series is no facts, not an error", func(t *testing.T) {
		assert.Empty(t, factsByKind(facts, 1, entities.FactMilitary, ""))
		assert.Len(t, factsByKind(facts, 1, entities.FactPoints, ""), 4)
	})

	t.Run("uniqueness per series and turn", func(t *testing.T) {
		type key struct {
			player int
			kind   entities.FactKind
			sub    string
			turn   int
		}
		seen := make(map[key]bool)
		for _, f := range facts {
			k := key{f.PlayerNum, f.Kind, f.Subcategory, f.Turn}
			assert.False(t, seen[k], "duplicate fact %+v", k)
			seen[k] = true
		}
	})
}

func TestTurnFacts_MalformedValue(t *testing.T) {
	doc := `<Root><Player><Name>X</Name>
		<PointsPerTurn><i>1</i><i>two</i></PointsPerTurn>
	</Player></Root>`
	_, err := TurnFacts(parseFixture(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed value")
}

func TestTurnFacts_MissingSubcategoryKey(t *testing.T) {
	doc := `<Root><Player><Name>X</Name>
		<YieldRates><Yield><i>1</i></Yield></YieldRates>
	</Player></Root>`
	_, err := TurnFacts(parseFixture(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type attribute")
}
