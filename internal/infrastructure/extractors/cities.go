package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Cities extracts the repeated City siblings and their completed production
// entries.
func Cities(root *archive.Node) ([]entities.City, []entities.CityProject, error) {
	var cities []entities.City
	var projects []entities.CityProject

	for idx, n := range root.ChildrenNamed("City") {
		id, err := n.IntOf("ID")
		if err != nil {
			return nil, nil, fmt.Errorf("city %d: %w", idx, err)
		}
		owner, err := n.IntOf("Player")
		if err != nil {
			return nil, nil, fmt.Errorf("city %d: %w", idx, err)
		}
		founded, err := n.IntOf("FoundedTurn")
		if err != nil {
			return nil, nil, fmt.Errorf("city %d: %w", idx, err)
		}
		x, err := n.IntOf("X")
		if err != nil {
			return nil, nil, fmt.Errorf("city %d: %w", idx, err)
		}
		y, err := n.IntOf("Y")
		if err != nil {
			return nil, nil, fmt.Errorf("city %d: %w", idx, err)
		}

		cities = append(cities, entities.City{
			CityID:      id,
			PlayerNum:   owner,
			Name:        n.TextOf("Name"),
			FoundedTurn: founded,
			X:           x,
			Y:           y,
		})

		list := n.Child("ProjectList")
		if list == nil {
			continue
		}
		for pidx, p := range list.ChildrenNamed("Project") {
			project := p.TextOf("Type")
			if project == "" {
				return nil, nil, fmt.Errorf("city %d project %d: missing Type", id, pidx)
			}
			turn, err := p.IntOf("Turn")
			if err != nil {
				return nil, nil, fmt.Errorf("city %d project %d: %w", id, pidx, err)
			}
			projects = append(projects, entities.CityProject{
				CityID:        id,
				Project:       project,
				CompletedTurn: turn,
			})
		}
	}
	return cities, projects, nil
}
