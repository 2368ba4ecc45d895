package extractors

import (
	"fmt"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// MemoryEvents extracts the legacy per-player taxonomy. Each Player element
// carries a MemoryList wrapper; the owning player becomes the event's player
// reference and any counterparty lands in the payload.
func MemoryEvents(root *archive.Node) ([]entities.Event, error) {
	var events []entities.Event

	for i, player := range root.ChildrenNamed("Player") {
		list := player.Child("MemoryList")
		if list == nil {
			continue
		}
		for _, mem := range list.ChildrenNamed("Memory") {
			tag := mem.TextOf("Type")
			if tag == "" {
				return nil, fmt.Errorf("player %d: memory entry missing Type", i)
			}
			ns, ok := entities.NamespaceForType(tag)
			if !ok || ns != entities.EventNamespaceMemory {
				return nil, fmt.Errorf("player %d: unexpected memory tag %q", i, tag)
			}

			ev, err := memoryEvent(mem, tag)
			if err != nil {
				return nil, fmt.Errorf("player %d: %w", i, err)
			}
			owner := i
			ev.PlayerNum = &owner
			events = append(events, ev)
		}
	}
	return events, nil
}

func memoryEvent(mem *archive.Node, tag string) (entities.Event, error) {
	turn, err := mem.IntOpt("Turn")
	if err != nil {
		return entities.Event{}, err
	}
	x, err := mem.IntOpt("X")
	if err != nil {
		return entities.Event{}, err
	}
	y, err := mem.IntOpt("Y")
	if err != nil {
		return entities.Event{}, err
	}
	payload, err := buildMemoryPayload(mem, tag)
	if err != nil {
		return entities.Event{}, err
	}
	return entities.Event{
		Namespace: entities.EventNamespaceMemory,
		Type:      tag,
		Turn:      turn,
		X:         x,
		Y:         y,
		Payload:   payload,
	}, nil
}

// buildMemoryPayload constructs the typed payload for a memory tag.
func buildMemoryPayload(mem *archive.Node, tag string) (entities.EventPayload, error) {
	value := 0
	if v, err := mem.IntOpt("Value"); err != nil {
		return nil, err
	} else if v != nil {
		value = *v
	}

	switch tag {
	case entities.MemoryWarDeclared,
		entities.MemoryPeaceAgreed,
		entities.MemoryAllianceFormed,
		entities.MemoryTributeDemanded:
		other, err := mem.IntOpt("Player")
		if err != nil {
			return nil, err
		}
		return entities.DiplomacyPayload{OtherPlayer: other, Value: value}, nil
	case entities.MemoryCityCaptured:
		cityID, err := mem.IntOpt("CityID")
		if err != nil {
			return nil, err
		}
		from, err := mem.IntOpt("Player")
		if err != nil {
			return nil, err
		}
		return entities.CityEventPayload{CityID: cityID, CityName: mem.TextOf("CityName"), FromPlayer: from}, nil
	case entities.MemoryFamilyPleased, entities.MemoryFamilyUpset:
		return entities.OpinionPayload{Subject: mem.TextOf("Family"), Delta: value}, nil
	case entities.MemoryReligionFounded, entities.MemoryReligionSpread:
		return entities.OpinionPayload{Subject: mem.TextOf("Religion"), Delta: value}, nil
	}
	return rawPayload(mem), nil
}

// LogEvents extracts the richer log taxonomy from the repeated LogData
// siblings at the document root.
func LogEvents(root *archive.Node) ([]entities.Event, error) {
	var events []entities.Event

	for idx, entry := range root.ChildrenNamed("LogData") {
		tag := entry.TextOf("Type")
		if tag == "" {
			return nil, fmt.Errorf("log entry %d: missing Type", idx)
		}
		ns, ok := entities.NamespaceForType(tag)
		if !ok || ns != entities.EventNamespaceLog {
			return nil, fmt.Errorf("log entry %d: unexpected log tag %q", idx, tag)
		}

		turn, err := entry.IntOpt("Turn")
		if err != nil {
			return nil, fmt.Errorf("log entry %d: %w", idx, err)
		}
		player, err := entry.IntOpt("Player")
		if err != nil {
			return nil, fmt.Errorf("log entry %d: %w", idx, err)
		}
		x, err := entry.IntOpt("X")
		if err != nil {
			return nil, fmt.Errorf("log entry %d: %w", idx, err)
		}
		y, err := entry.IntOpt("Y")
		if err != nil {
			return nil, fmt.Errorf("log entry %d: %w", idx, err)
		}
		payload, err := buildLogPayload(entry, tag)
		if err != nil {
			return nil, fmt.Errorf("log entry %d: %w", idx, err)
		}

		events = append(events, entities.Event{
			Namespace: entities.EventNamespaceLog,
			Type:      tag,
			Turn:      turn,
			PlayerNum: player,
			X:         x,
			Y:         y,
			Payload:   payload,
		})
	}
	return events, nil
}

// buildLogPayload constructs the typed payload for a log tag. Unknown tags
// keep their fields as a raw payload rather than being dropped.
func buildLogPayload(entry *archive.Node, tag string) (entities.EventPayload, error) {
	switch tag {
	case entities.LogBattle:
		return entities.BattlePayload{
			AttackerUnit: entry.TextOf("AttackerUnit"),
			DefenderUnit: entry.TextOf("DefenderUnit"),
			AttackerWon:  entry.Flag("AttackerWon"),
		}, nil
	case entities.LogCityFounded, entities.LogCityCaptured:
		cityID, err := entry.IntOpt("CityID")
		if err != nil {
			return nil, err
		}
		from, err := entry.IntOpt("FromPlayer")
		if err != nil {
			return nil, err
		}
		return entities.CityEventPayload{CityID: cityID, CityName: entry.TextOf("CityName"), FromPlayer: from}, nil
	case entities.LogTechDiscovered:
		return entities.TechPayload{Tech: entry.TextOf("Tech")}, nil
	case entities.LogLawAdopted:
		return entities.LawPayload{Law: entry.TextOf("Law")}, nil
	case entities.LogRulerSucceeded, entities.LogRulerDied:
		return entities.RulerEventPayload{
			Character: entry.TextOf("Character"),
			Archetype: entry.TextOf("Archetype"),
		}, nil
	case entities.LogUnitBuilt:
		cityID, err := entry.IntOpt("CityID")
		if err != nil {
			return nil, err
		}
		return entities.UnitBuiltPayload{Unit: entry.TextOf("Unit"), CityID: cityID}, nil
	case entities.LogGoalFinished:
		return entities.GoalPayload{Goal: entry.TextOf("Goal")}, nil
	}
	return rawPayload(entry), nil
}

// rawPayload collects an entry's leaf children verbatim, skipping the
// envelope fields already lifted onto the event itself.
func rawPayload(entry *archive.Node) entities.RawPayload {
	raw := entities.RawPayload{}
	for _, c := range entry.Children {
		switch c.Name {
		case "Type", "Turn", "Player", "X", "Y":
			continue
		}
		raw[c.Name] = c.Text
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}
