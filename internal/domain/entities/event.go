package entities

import (
	"encoding/json"
	"strings"
)

// EventNamespace identifies which of the two save-file event taxonomies an
// event came from. The legacy "memory" taxonomy and the richer "log" taxonomy
// use disjoint type tags, so outputs of both extractors are concatenated with
// no deduplication.
type EventNamespace string

const (
	EventNamespaceMemory EventNamespace = "memory"
	EventNamespaceLog    EventNamespace = "log"
)

// Memory taxonomy type tags (legacy, per-player diplomacy and opinion notes).
const (
	MemoryWarDeclared     = "MEMORYPLAYER_DECLARED_WAR"
	MemoryPeaceAgreed     = "MEMORYPLAYER_AGREED_PEACE"
	MemoryCityCaptured    = "MEMORYPLAYER_CAPTURED_CITY"
	MemoryAllianceFormed  = "MEMORYPLAYER_FORMED_ALLIANCE"
	MemoryTributeDemanded = "MEMORYPLAYER_DEMANDED_TRIBUTE"
	MemoryFamilyPleased   = "MEMORYFAMILY_PLEASED"
	MemoryFamilyUpset     = "MEMORYFAMILY_UPSET"
	MemoryReligionFounded = "MEMORYRELIGION_FOUNDED"
	MemoryReligionSpread  = "MEMORYRELIGION_SPREAD"
)

// Log taxonomy type tags (per-turn game log).
const (
	LogBattle         = "LOG_BATTLE"
	LogCityFounded    = "LOG_CITY_FOUNDED"
	LogCityCaptured   = "LOG_CITY_CAPTURED"
	LogTechDiscovered = "LOG_TECH_DISCOVERED"
	LogLawAdopted     = "LOG_LAW_ADOPTED"
	LogRulerSucceeded = "LOG_RULER_SUCCEEDED"
	LogRulerDied      = "LOG_RULER_DIED"
	LogUnitBuilt      = "LOG_UNIT_BUILT"
	LogGoalFinished   = "LOG_GOAL_FINISHED"
)

// MemoryEventTypes and LogEventTypes enumerate the known tags per taxonomy.
var (
	MemoryEventTypes = []string{
		MemoryWarDeclared,
		MemoryPeaceAgreed,
		MemoryCityCaptured,
		MemoryAllianceFormed,
		MemoryTributeDemanded,
		MemoryFamilyPleased,
		MemoryFamilyUpset,
		MemoryReligionFounded,
		MemoryReligionSpread,
	}
	LogEventTypes = []string{
		LogBattle,
		LogCityFounded,
		LogCityCaptured,
		LogTechDiscovered,
		LogLawAdopted,
		LogRulerSucceeded,
		LogRulerDied,
		LogUnitBuilt,
		LogGoalFinished,
	}
)

// NamespaceForType classifies a type tag by its taxonomy prefix. The two
// namespaces cannot collide: memory tags always begin "MEMORY" and log tags
// always begin "LOG_".
func NamespaceForType(tag string) (EventNamespace, bool) {
	switch {
	case strings.HasPrefix(tag, "MEMORY"):
		return EventNamespaceMemory, true
	case strings.HasPrefix(tag, "LOG_"):
		return EventNamespaceLog, true
	}
	return "", false
}

// Event is a discrete game occurrence. Turn, player and coordinates are all
// optional; PlayerNum follows the bundle's player-number space.
type Event struct {
	MatchID   int64          `json:"match_id"`
	Namespace EventNamespace `json:"namespace"`
	Type      string         `json:"type"`
	Turn      *int           `json:"turn,omitempty"`
	PlayerNum *int           `json:"player_num,omitempty"`
	X         *int           `json:"x,omitempty"`
	Y         *int           `json:"y,omitempty"`
	Payload   EventPayload   `json:"payload,omitempty"`
}

// EventPayload is the typed per-event-family payload. One variant exists per
// family, built by a per-type builder in the extractors; unknown tags fall
// back to RawPayload so nothing in the source is dropped.
type EventPayload interface {
	isEventPayload()
}

// BattlePayload describes one LOG_BATTLE entry.
type BattlePayload struct {
	AttackerUnit string `json:"attacker_unit,omitempty"`
	DefenderUnit string `json:"defender_unit,omitempty"`
	AttackerWon  bool   `json:"attacker_won"`
}

// CityEventPayload covers city founding and capture in both taxonomies.
type CityEventPayload struct {
	CityID     *int   `json:"city_id,omitempty"`
	CityName   string `json:"city_name,omitempty"`
	FromPlayer *int   `json:"from_player,omitempty"`
}

// TechPayload carries a discovered technology.
type TechPayload struct {
	Tech string `json:"tech"`
}

// LawPayload carries an adopted law.
type LawPayload struct {
	Law string `json:"law"`
}

// RulerEventPayload covers succession and death log entries.
type RulerEventPayload struct {
	Character string `json:"character"`
	Archetype string `json:"archetype,omitempty"`
}

// UnitBuiltPayload records a unit completion. The save format does not
// distinguish produced units from converted ones, and losses are not
// replayed here, so counts derived from these events are a lower bound on
// unit provenance, never an exact figure.
type UnitBuiltPayload struct {
	Unit   string `json:"unit"`
	CityID *int   `json:"city_id,omitempty"`
}

// DiplomacyPayload covers the memory taxonomy's player-to-player entries.
type DiplomacyPayload struct {
	OtherPlayer *int `json:"other_player,omitempty"`
	Value       int  `json:"value,omitempty"`
}

// OpinionPayload covers the memory taxonomy's family and religion entries.
type OpinionPayload struct {
	Subject string `json:"subject,omitempty"`
	Delta   int    `json:"delta,omitempty"`
}

// GoalPayload carries a finished ambition or goal.
type GoalPayload struct {
	Goal string `json:"goal"`
}

// RawPayload preserves the child fields of an event whose tag has no typed
// variant yet.
type RawPayload map[string]string

func (BattlePayload) isEventPayload()     {}
func (CityEventPayload) isEventPayload()  {}
func (TechPayload) isEventPayload()       {}
func (LawPayload) isEventPayload()        {}
func (RulerEventPayload) isEventPayload() {}
func (UnitBuiltPayload) isEventPayload()  {}
func (DiplomacyPayload) isEventPayload()  {}
func (OpinionPayload) isEventPayload()    {}
func (GoalPayload) isEventPayload()       {}
func (RawPayload) isEventPayload()        {}

// MarshalPayload serializes an event payload for storage. A nil payload
// serializes to the empty string.
func MarshalPayload(p EventPayload) (string, error) {
	if p == nil {
		return "", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
