package entities

// Ruler is one ruler-in-power record for a match/player. SuccessionOrder is
// strictly increasing per player starting at 1. BirthTurn may be negative
// (born before game start); a nil DeathTurn means alive at game end.
type Ruler struct {
	MatchID         int64  `json:"match_id"`
	PlayerNum       int    `json:"player_num"`
	SuccessionOrder int    `json:"succession_order"`
	CharacterName   string `json:"character_name"`
	SuccessionTurn  int    `json:"succession_turn"`
	BirthTurn       *int   `json:"birth_turn,omitempty"`
	DeathTurn       *int   `json:"death_turn,omitempty"`
}
