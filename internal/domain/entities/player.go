package entities

import (
	"regexp"
	"strings"

	"github.com/gosimple/unidecode"
)

// reNonAlphanumeric matches everything outside [a-z0-9] after lowering.
var reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// LinkStatus records how (or whether) a player was linked to a participant.
// It is stored explicitly so downstream grouping never has to infer
// "unlinked" from a NULL foreign key.
type LinkStatus string

const (
	// LinkUnlinked means no participant could be resolved. Terminal and
	// valid, not an error.
	LinkUnlinked LinkStatus = "unlinked"
	// LinkLinked means the player matched exactly one roster participant
	// by normalized name.
	LinkLinked LinkStatus = "linked"
	// LinkOverride means a manual override entry forced the link.
	LinkOverride LinkStatus = "override"
)

// Player is one in-match slot. Identifier space is per match: PlayerNum is
// the 1-based store number and is never shared across matches.
type Player struct {
	MatchID        int64      `json:"match_id"`
	PlayerNum      int        `json:"player_num"`
	Name           string     `json:"name"`            // as written in the save
	NormalizedName string     `json:"normalized_name"` // see NormalizeName
	Nation         string     `json:"nation,omitempty"`
	Score          int        `json:"score"`
	IsHuman        bool       `json:"is_human"`
	ParticipantID  *int64     `json:"participant_id,omitempty"`
	LinkStatus     LinkStatus `json:"link_status"`
}

// PlayerLink is the resolver's output for one player: the participant to
// link (nil for unlinked) and the explicit status.
type PlayerLink struct {
	MatchID       int64
	PlayerNum     int
	ParticipantID *int64
	Status        LinkStatus
}

// StorePlayerNum converts a save-file player index into the store's player
// number. The save format is 0-based and the store is 1-based; index 0 is the
// first, always-valid player slot, never "no player".
func StorePlayerNum(saveIndex int) int {
	return saveIndex + 1
}

// PlayerNumMap is the per-file table mapping save indices to store player
// numbers, applied to every extracted record before load.
type PlayerNumMap struct {
	count int
}

// NewPlayerNumMap builds the mapping table for a file with count players.
func NewPlayerNumMap(count int) PlayerNumMap {
	return PlayerNumMap{count: count}
}

// Store returns the store player number for a save index, or false when the
// index does not belong to the file.
func (m PlayerNumMap) Store(saveIndex int) (int, bool) {
	if saveIndex < 0 || saveIndex >= m.count {
		return 0, false
	}
	return StorePlayerNum(saveIndex), true
}

// StoreRef maps an optional save index. A nil input stays nil: "no player"
// is expressed only by absence, never by index 0.
func (m PlayerNumMap) StoreRef(saveIndex *int) (*int, bool) {
	if saveIndex == nil {
		return nil, true
	}
	num, ok := m.Store(*saveIndex)
	if !ok {
		return nil, false
	}
	return &num, true
}

// NormalizeName reduces a display name to its comparison form: trim,
// transliterate diacritics to ASCII, lowercase, then strip everything that is
// not a letter or digit. Deterministic by construction; applying it twice is
// the same as applying it once.
func NormalizeName(name string) string {
	name = unidecode.Unidecode(strings.TrimSpace(name))
	name = strings.ToLower(name)
	return reNonAlphanumeric.ReplaceAllString(name, "")
}
