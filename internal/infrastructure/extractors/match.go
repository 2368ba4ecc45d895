package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Match extracts the match-level metadata: settings, option and content
// flags, total turns and the winner (as a save-space index). FileName,
// ContentHash and ImportedAt are the orchestrator's to fill in.
func Match(root *archive.Node) (*entities.Match, error) {
	game := root.Child("Game")
	if game == nil {
		return nil, fmt.Errorf("missing element Game")
	}

	totalTurns, err := game.IntOf("Turn")
	if err != nil {
		return nil, err
	}
	mapWidth, err := game.IntOf("MapWidth")
	if err != nil {
		return nil, err
	}
	mapHeight, err := game.IntOf("MapHeight")
	if err != nil {
		return nil, err
	}
	winner, err := game.IntOpt("WinnerPlayer")
	if err != nil {
		return nil, err
	}

	m := &entities.Match{
		ExternalMatchID: game.TextOf("MatchID"),
		GameName:        game.TextOf("GameName"),
		MapSize:         game.TextOf("MapSize"),
		MapWidth:        mapWidth,
		MapHeight:       mapHeight,
		TurnStyle:       game.TextOf("TurnStyle"),
		TotalTurns:      totalTurns,
		WinnerPlayerNum: winner,
	}

	if victories := game.Child("VictoryList"); victories != nil {
		for _, v := range victories.ChildrenNamed("Victory") {
			if v.Text != "" {
				m.VictoryTypes = append(m.VictoryTypes, v.Text)
			}
		}
	}

	// Options and content appear as flag children: a self-closing element
	// means enabled. Collecting names rather than texts keeps empty flags.
	if opts := game.Child("GameOptions"); opts != nil {
		for _, o := range opts.Children {
			m.GameOptions = append(m.GameOptions, o.Name)
		}
	}
	if content := game.Child("Content"); content != nil {
		for _, c := range content.Children {
			m.ContentFlags = append(m.ContentFlags, c.Name)
		}
	}

	return m, nil
}
