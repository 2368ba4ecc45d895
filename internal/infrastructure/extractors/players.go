package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Players extracts the per-slot player records. PlayerNum carries the
// save-space index (element position, 0-based) until the importer maps it.
func Players(root *archive.Node) ([]entities.Player, error) {
	nodes := root.ChildrenNamed("Player")
	if len(nodes) == 0 {
		return nil, fmt.Errorf("missing element Player")
	}

	players := make([]entities.Player, 0, len(nodes))
	for i, n := range nodes {
		name := n.TextOf("Name")
		if name == "" {
			return nil, fmt.Errorf("player %d: missing element Name", i)
		}
		score := 0
		if s, err := n.IntOpt("Score"); err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		} else if s != nil {
			score = *s
		}

		players = append(players, entities.Player{
			PlayerNum:      i,
			Name:           name,
			NormalizedName: entities.NormalizeName(name),
			Nation:         n.TextOf("Nation"),
			Score:          score,
			IsHuman:        n.Flag("Human"),
			LinkStatus:     entities.LinkUnlinked,
		})
	}
	return players, nil
}
