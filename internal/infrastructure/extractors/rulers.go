package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Rulers extracts the succession records per player. Succession order is the
// list position (1-based); its turn must not move backwards within a player.
func Rulers(root *archive.Node) ([]entities.Ruler, error) {
	var rulers []entities.Ruler

	for i, player := range root.ChildrenNamed("Player") {
		list := player.Child("SuccessionList")
		if list == nil {
			continue
		}

		lastTurn := -1
		for order, s := range list.ChildrenNamed("Succession") {
			character := s.TextOf("Character")
			if character == "" {
				return nil, fmt.Errorf("player %d succession %d: missing Character", i, order+1)
			}
			turn, err := s.IntOf("Turn")
			if err != nil {
				return nil, fmt.Errorf("player %d succession %d: %w", i, order+1, err)
			}
			if turn < lastTurn {
				return nil, fmt.Errorf("player %d succession %d: turn %d before predecessor %d", i, order+1, turn, lastTurn)
			}
			lastTurn = turn

			// Birth may be negative (before game start); a missing death
			// turn means the ruler was alive at game end.
			birth, err := s.IntOpt("BirthTurn")
			if err != nil {
				return nil, fmt.Errorf("player %d succession %d: %w", i, order+1, err)
			}
			death, err := s.IntOpt("DeathTurn")
			if err != nil {
				return nil, fmt.Errorf("player %d succession %d: %w", i, order+1, err)
			}

			rulers = append(rulers, entities.Ruler{
				PlayerNum:       i,
				SuccessionOrder: order + 1,
				CharacterName:   character,
				SuccessionTurn:  turn,
				BirthTurn:       birth,
				DeathTurn:       death,
			})
		}
	}
	return rulers, nil
}
