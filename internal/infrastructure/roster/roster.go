// Package roster loads the externally supplied participant roster and the
// human-edited link-override file. Both are read-only inputs to the core:
// fetching or synchronizing them from a remote service is a collaborator's
// job.
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/becked/prospector-sub006/internal/domain/entities"
)

// rosterFile is the on-disk shape of a roster export.
type rosterFile struct {
	Participants []rosterEntry `yaml:"participants"`
}

type rosterEntry struct {
	Name      string `yaml:"name"`
	AccountID string `yaml:"account_id,omitempty"`
	Seed      *int   `yaml:"seed,omitempty"`
	Rank      *int   `yaml:"rank,omitempty"`
}

// LoadRoster reads a yaml roster file into participant records. Entries
// without a display name are rejected: the roster is hand-assembled and a
// blank name is always a mistake worth stopping on.
func LoadRoster(path string) ([]entities.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing roster file: %w", err)
	}

	participants := make([]entities.Participant, 0, len(file.Participants))
	for i, e := range file.Participants {
		if e.Name == "" {
			return nil, fmt.Errorf("roster entry %d: missing name", i+1)
		}
		participants = append(participants, entities.Participant{
			DisplayName:    e.Name,
			NormalizedName: entities.NormalizeName(e.Name),
			AccountID:      e.AccountID,
			Seed:           e.Seed,
			Rank:           e.Rank,
		})
	}
	return participants, nil
}

// overridesFile is the on-disk shape of the override list.
type overridesFile struct {
	Overrides []entities.NameOverride `yaml:"overrides"`
}

// LoadOverrides reads the manual override file. A missing file means no
// overrides, which is the common case. Structural problems (an entry without
// its key fields) are errors; referential problems (unknown participant id)
// are the resolver's to log and skip per entry.
func LoadOverrides(path string) ([]entities.NameOverride, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing overrides file: %w", err)
	}

	for i, o := range file.Overrides {
		if o.ExternalMatchID == "" {
			return nil, fmt.Errorf("override entry %d: missing match", i+1)
		}
		if o.PlayerName == "" {
			return nil, fmt.Errorf("override entry %d: missing player", i+1)
		}
		if o.ParticipantID <= 0 {
			return nil, fmt.Errorf("override entry %d: missing participant", i+1)
		}
	}
	return file.Overrides, nil
}
