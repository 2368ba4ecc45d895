package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Territory extracts the per-turn tile ownership snapshots. Coordinates are
// bounded by the map size from the Game element; a snapshot tile outside the
// map is malformed. A tile's c attribute points at its controlling city and
// is absent for unclaimed tiles.
func Territory(root *archive.Node) ([]entities.TerritoryTile, error) {
	history := root.Child("TerritoryHistory")
	if history == nil {
		return nil, nil // older exports have no territory history
	}

	width, height := mapBounds(root)

	var tiles []entities.TerritoryTile
	for _, snap := range history.ChildrenNamed("Snapshot") {
		turn, present, err := snap.IntAttr("turn")
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, fmt.Errorf("territory snapshot missing turn attribute")
		}

		for _, t := range snap.ChildrenNamed("T") {
			x, okX, err := t.IntAttr("x")
			if err != nil {
				return nil, fmt.Errorf("snapshot turn %d: %w", turn, err)
			}
			y, okY, err := t.IntAttr("y")
			if err != nil {
				return nil, fmt.Errorf("snapshot turn %d: %w", turn, err)
			}
			if !okX || !okY {
				return nil, fmt.Errorf("snapshot turn %d: tile missing coordinates", turn)
			}
			if width > 0 && height > 0 && (x < 0 || x >= width || y < 0 || y >= height) {
				return nil, fmt.Errorf("snapshot turn %d: tile (%d,%d) outside %dx%d map", turn, x, y, width, height)
			}

			var cityID *int
			if c, present, err := t.IntAttr("c"); err != nil {
				return nil, fmt.Errorf("snapshot turn %d: %w", turn, err)
			} else if present {
				cityID = &c
			}

			tiles = append(tiles, entities.TerritoryTile{
				Turn:   turn,
				X:      x,
				Y:      y,
				CityID: cityID,
			})
		}
	}
	return tiles, nil
}

func mapBounds(root *archive.Node) (width, height int) {
	game := root.Child("Game")
	if game == nil {
		return 0, 0
	}
	if w, err := game.IntOf("MapWidth"); err == nil {
		width = w
	}
	if h, err := game.IntOf("MapHeight"); err == nil {
		height = h
	}
	return width, height
}
