package entities

// City is founded once and owned by a player. CityID is the save's own city
// identifier, scoped to the match.
type City struct {
	MatchID     int64  `json:"match_id"`
	CityID      int    `json:"city_id"`
	PlayerNum   int    `json:"player_num"`
	Name        string `json:"name"`
	FoundedTurn int    `json:"founded_turn"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

// CityProject is one completed production entry for a city.
type CityProject struct {
	MatchID       int64  `json:"match_id"`
	CityID        int    `json:"city_id"`
	Project       string `json:"project"`
	CompletedTurn int    `json:"completed_turn"`
}

// TerritoryTile is a per-turn ownership snapshot of one map coordinate.
// CityID points at the controlling city, nil for unclaimed tiles.
type TerritoryTile struct {
	MatchID int64 `json:"match_id"`
	Turn    int   `json:"turn"`
	X       int   `json:"x"`
	Y       int   `json:"y"`
	CityID  *int  `json:"city_id,omitempty"`
}
