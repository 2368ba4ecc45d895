// Package ports defines the interfaces between domain services and
// infrastructure.
package ports

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/entities"
)

// Store is the relational store the pipeline loads into and the resolver
// reads from.
type Store interface {
	// MatchExists reports whether the dedup key (fileName, contentHash) is
	// already present.
	MatchExists(ctx context.Context, fileName, contentHash string) (bool, error)

	// ImportMatch writes a whole bundle inside a single transaction and
	// returns the new match id. With force set, an existing match with the
	// same file name is deleted first, inside the same transaction. Partial
	// writes are never visible: any failure rolls the archive back.
	ImportMatch(ctx context.Context, bundle *entities.MatchBundle, force bool) (int64, error)

	// ListMatches returns every imported match.
	ListMatches(ctx context.Context) ([]entities.Match, error)

	// ListPlayers returns the players of one match.
	ListPlayers(ctx context.Context, matchID int64) ([]entities.Player, error)

	// UpdateLinks applies a set of player links in one exclusive
	// transaction, serialized against concurrent writers of player rows.
	UpdateLinks(ctx context.Context, links []entities.PlayerLink) error

	// UpsertParticipants inserts or updates roster participants, keyed by
	// stable account id when present, otherwise by normalized name.
	UpsertParticipants(ctx context.Context, participants []entities.Participant) error

	// ReplaceOverrides replaces the stored override set with the validated
	// entries of the current resolver run.
	ReplaceOverrides(ctx context.Context, overrides []entities.NameOverride) error

	// SaveImportRun records a batch run; FinishImportRun fills in the final
	// counts.
	SaveImportRun(ctx context.Context, run *entities.ImportRun) error
	FinishImportRun(ctx context.Context, run *entities.ImportRun) error

	// TableCounts returns row counts per domain table, for status reporting.
	TableCounts(ctx context.Context) (map[string]int64, error)

	// ListQualityFlags returns all recorded data-quality flags.
	ListQualityFlags(ctx context.Context) ([]entities.QualityFlag, error)

	Close() error
}

// Roster supplies the read-only participant list the resolver links against.
// The resolver never mutates it.
type Roster interface {
	Participants(ctx context.Context) ([]entities.Participant, error)
}
