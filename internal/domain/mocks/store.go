// Package mocks provides hand-written test doubles for the domain ports.
package mocks

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/entities"
)

// Store is a configurable in-memory fake for ports.Store.
type Store struct {
	Matches      []entities.Match
	Players      map[int64][]entities.Player // keyed by match id
	Flags        []entities.QualityFlag
	Counts       map[string]int64
	ExistingKeys map[[2]string]bool // (file name, content hash)

	ImportedBundles   []*entities.MatchBundle
	UpdatedLinks      []entities.PlayerLink
	StoredOverrides   []entities.NameOverride
	UpsertedRoster    []entities.Participant
	SavedRuns         []*entities.ImportRun
	FinishedRuns      []*entities.ImportRun
	UpdateLinksCalls  int
	ImportMatchCalls  int
	NextMatchID       int64
	ErrOnImport       error
	ErrOnUpdateLinks  error
	ErrOnReplaceOvers error
}

func (s *Store) MatchExists(_ context.Context, fileName, contentHash string) (bool, error) {
	return s.ExistingKeys[[2]string{fileName, contentHash}], nil
}

func (s *Store) ImportMatch(_ context.Context, bundle *entities.MatchBundle, _ bool) (int64, error) {
	s.ImportMatchCalls++
	if s.ErrOnImport != nil {
		return 0, s.ErrOnImport
	}
	s.ImportedBundles = append(s.ImportedBundles, bundle)
	s.NextMatchID++
	return s.NextMatchID, nil
}

func (s *Store) ListMatches(_ context.Context) ([]entities.Match, error) {
	return s.Matches, nil
}

func (s *Store) ListPlayers(_ context.Context, matchID int64) ([]entities.Player, error) {
	return s.Players[matchID], nil
}

func (s *Store) UpdateLinks(_ context.Context, links []entities.PlayerLink) error {
	s.UpdateLinksCalls++
	if s.ErrOnUpdateLinks != nil {
		return s.ErrOnUpdateLinks
	}
	s.UpdatedLinks = append(s.UpdatedLinks, links...)
	return nil
}

func (s *Store) UpsertParticipants(_ context.Context, participants []entities.Participant) error {
	s.UpsertedRoster = append(s.UpsertedRoster, participants...)
	return nil
}

func (s *Store) ReplaceOverrides(_ context.Context, overrides []entities.NameOverride) error {
	if s.ErrOnReplaceOvers != nil {
		return s.ErrOnReplaceOvers
	}
	s.StoredOverrides = overrides
	return nil
}

func (s *Store) SaveImportRun(_ context.Context, run *entities.ImportRun) error {
	s.SavedRuns = append(s.SavedRuns, run)
	return nil
}

func (s *Store) FinishImportRun(_ context.Context, run *entities.ImportRun) error {
	s.FinishedRuns = append(s.FinishedRuns, run)
	return nil
}

func (s *Store) TableCounts(_ context.Context) (map[string]int64, error) {
	return s.Counts, nil
}

func (s *Store) ListQualityFlags(_ context.Context) ([]entities.QualityFlag, error) {
	return s.Flags, nil
}

func (s *Store) Close() error { return nil }

// Roster is a fixed-list fake for ports.Roster.
type Roster struct {
	Result []entities.Participant
	Err    error
}

func (r *Roster) Participants(_ context.Context) ([]entities.Participant, error) {
	return r.Result, r.Err
}
