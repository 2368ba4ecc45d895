// Package entities contains core domain data structures.
package entities

import "time"

// Match represents one imported game-save archive and its settings.
// A match is created once per unique (FileName, ContentHash) pair and is
// never mutated afterwards except to attach a winner.
type Match struct {
	ID              int64     `json:"id"`
	FileName        string    `json:"file_name"`
	ContentHash     string    `json:"content_hash"`
	ExternalMatchID string    `json:"external_match_id,omitempty"` // tournament id, stable across re-imports
	GameName        string    `json:"game_name,omitempty"`
	MapSize         string    `json:"map_size,omitempty"`
	MapWidth        int       `json:"map_width"`
	MapHeight       int       `json:"map_height"`
	TurnStyle       string    `json:"turn_style,omitempty"`
	VictoryTypes    []string  `json:"victory_types,omitempty"`
	GameOptions     []string  `json:"game_options,omitempty"`
	ContentFlags    []string  `json:"content_flags,omitempty"`
	TotalTurns      int       `json:"total_turns"`
	WinnerPlayerNum *int      `json:"winner_player_num,omitempty"`
	ImportedAt      time.Time `json:"imported_at"`
}

// MatchBundle is everything extracted from a single archive, loaded into the
// store as one atomic unit. Player numbers throughout the bundle are in save
// space (0-based) until the importer applies a PlayerNumMap.
type MatchBundle struct {
	Match        *Match
	Players      []Player
	Facts        []TurnFact
	Events       []Event
	Rulers       []Ruler
	Cities       []City
	CityProjects []CityProject
	Tiles        []TerritoryTile
	Flags        []QualityFlag
}
