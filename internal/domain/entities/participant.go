package entities

import "time"

// Participant is a persistent, tournament-scoped identity for a real person,
// sourced from an external roster. Independent lifecycle from Match/Player;
// the resolver only ever writes the link, never the participant itself.
type Participant struct {
	ID             int64     `json:"id"`
	DisplayName    string    `json:"display_name"`
	NormalizedName string    `json:"normalized_name"`
	AccountID      string    `json:"account_id,omitempty"` // stable across rosters/events
	Seed           *int      `json:"seed,omitempty"`
	Rank           *int      `json:"rank,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NameOverride is a human-curated correction forcing a specific link. It is
// keyed by the stable external match identifier (never the store's own
// auto-incrementing match id, which may change across re-imports) plus the
// raw player name as written in the save.
type NameOverride struct {
	ExternalMatchID string `yaml:"match" json:"external_match_id"`
	PlayerName      string `yaml:"player" json:"player_name"`
	ParticipantID   int64  `yaml:"participant" json:"participant_id"`
	Note            string `yaml:"note,omitempty" json:"note,omitempty"`
}
