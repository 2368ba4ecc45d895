// Package services contains the domain services: the import orchestrator
// and the participant identity resolver.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/domain/ports"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
	"github.com/becked/prospector-sub006/internal/infrastructure/extractors"
)

// ArchiveState is one step of the per-archive import state machine.
type ArchiveState string

const (
	StateDiscovered  ArchiveState = "discovered"
	StateHashChecked ArchiveState = "hash_checked"
	StateSkipped     ArchiveState = "skipped"
	StateParsed      ArchiveState = "parsed"
	StateMapped      ArchiveState = "mapped"
	StateInserted    ArchiveState = "inserted"
	StateCommitted   ArchiveState = "committed"
	StateRolledBack  ArchiveState = "rolled_back"
)

// ImportOptions controls a batch import.
type ImportOptions struct {
	// Force re-imports archives whose dedup key is already present.
	Force bool
}

// ImportSummary reports the outcome of one batch run.
type ImportSummary struct {
	RunID    string
	Scanned  int
	Imported int
	Skipped  int
	Failed   int
	// Gaps lists record families that failed to extract, per archive that
	// still imported.
	Gaps map[string][]string
}

// ImportService sequences read, extract, map and load for each archive in a
// batch. Extraction runs in parallel across archives; the unit of failure is
// always one archive, never the batch.
type ImportService struct {
	store   ports.Store
	logger  zerolog.Logger
	workers int

	// writeMu serializes all store writes: each archive's rows land in one
	// transaction with no interleaving from other archives.
	writeMu sync.Mutex
}

// NewImportService creates an import service. workers bounds concurrent
// archive extraction.
func NewImportService(store ports.Store, logger zerolog.Logger, workers int) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{store: store, logger: logger, workers: workers}
}

// ImportDir imports every archive in dir. A failed archive is logged and the
// batch continues; re-running later retries it because nothing was committed
// for it.
func (s *ImportService) ImportDir(ctx context.Context, dir string, opts ImportOptions) (*ImportSummary, error) {
	paths, err := listArchives(dir)
	if err != nil {
		return nil, err
	}

	run := &entities.ImportRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.SaveImportRun(ctx, run); err != nil {
		return nil, fmt.Errorf("recording import run: %w", err)
	}

	summary := &ImportSummary{
		RunID:   run.ID,
		Scanned: len(paths),
		Gaps:    make(map[string][]string),
	}
	var summaryMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			state, gaps, err := s.ImportFile(gctx, path, opts.Force)

			summaryMu.Lock()
			defer summaryMu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Error().Err(err).Str("archive", path).Str("state", string(state)).Msg("archive import failed")
			case state == StateSkipped:
				summary.Skipped++
			default:
				summary.Imported++
				if len(gaps) > 0 {
					summary.Gaps[filepath.Base(path)] = gaps
				}
			}
			return nil // one archive's failure never aborts the batch
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Scanned = summary.Scanned
	run.Imported = summary.Imported
	run.Skipped = summary.Skipped
	run.Failed = summary.Failed
	if err := s.store.FinishImportRun(ctx, run); err != nil {
		return nil, fmt.Errorf("finishing import run: %w", err)
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Int("scanned", summary.Scanned).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("batch import finished")

	return summary, nil
}

// ImportFile runs the state machine for one archive. It returns the terminal
// state, the record families that extracted with a gap, and an error for
// anything that rolled the archive back.
func (s *ImportService) ImportFile(ctx context.Context, path string, force bool) (ArchiveState, []string, error) {
	fileName := filepath.Base(path)
	log := s.logger.With().Str("archive", fileName).Logger()
	log.Debug().Str("state", string(StateDiscovered)).Msg("archive discovered")

	data, err := os.ReadFile(path)
	if err != nil {
		return StateDiscovered, nil, fmt.Errorf("reading archive: %w", err)
	}

	sum := sha256.Sum256(data)
	contentHash := hex.EncodeToString(sum[:])

	exists, err := s.store.MatchExists(ctx, fileName, contentHash)
	if err != nil {
		return StateHashChecked, nil, err
	}
	if exists && !force {
		// Already imported: this is information, not a failure.
		log.Info().Str("hash", contentHash[:12]).Msg("archive already imported, skipping")
		return StateSkipped, nil, nil
	}

	root, err := archive.Read(data)
	if err != nil {
		return StateHashChecked, nil, err
	}

	bundle, extractErrs := extractors.ExtractAll(root)
	if bundle == nil {
		// Match metadata or players failed: nothing can be loaded.
		return StateParsed, nil, errors.Join(extractErrs...)
	}
	log.Debug().Str("state", string(StateParsed)).Int("players", len(bundle.Players)).Msg("archive parsed")

	// Extraction gaps do not block the archive; they import as a data
	// quality flag.
	var gaps []string
	for _, err := range extractErrs {
		var xerr *entities.ExtractionError
		if errors.As(err, &xerr) {
			gaps = append(gaps, xerr.Family)
			bundle.Flags = append(bundle.Flags, entities.QualityFlag{
				Flag:   entities.FlagExtractionGap,
				Detail: xerr.Family,
			})
			log.Warn().Err(xerr).Str("family", xerr.Family).Msg("record family failed to extract")
		} else {
			log.Warn().Err(err).Msg("extraction warning")
		}
	}

	bundle.Match.FileName = fileName
	bundle.Match.ContentHash = contentHash
	bundle.Match.ImportedAt = time.Now().UTC()

	if err := applyPlayerMap(bundle); err != nil {
		return StateParsed, gaps, err
	}
	bundle.Flags = append(bundle.Flags, factSeriesFlags(bundle)...)
	log.Debug().Str("state", string(StateMapped)).Msg("player indices mapped")

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	matchID, err := s.store.ImportMatch(ctx, bundle, force && exists)
	if err != nil {
		// The store rolled the whole archive back; nothing partial is
		// visible.
		return StateRolledBack, gaps, err
	}

	log.Info().
		Int64("match_id", matchID).
		Str("state", string(StateCommitted)).
		Int("facts", len(bundle.Facts)).
		Int("events", len(bundle.Events)).
		Msg("archive imported")
	return StateCommitted, gaps, nil
}

// listArchives returns the zip archives under dir, sorted for deterministic
// processing order.
func listArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// applyPlayerMap converts every save-space player index in the bundle to the
// store's 1-based numbering. Centralizing the conversion here is what keeps
// the offset uniform across record families.
func applyPlayerMap(b *entities.MatchBundle) error {
	m := entities.NewPlayerNumMap(len(b.Players))

	for i := range b.Players {
		num, ok := m.Store(b.Players[i].PlayerNum)
		if !ok {
			return fmt.Errorf("player index %d out of range", b.Players[i].PlayerNum)
		}
		b.Players[i].PlayerNum = num
	}

	winner, ok := m.StoreRef(b.Match.WinnerPlayerNum)
	if !ok {
		return fmt.Errorf("winner index %d out of range", *b.Match.WinnerPlayerNum)
	}
	b.Match.WinnerPlayerNum = winner

	for i := range b.Facts {
		num, ok := m.Store(b.Facts[i].PlayerNum)
		if !ok {
			return fmt.Errorf("fact player index %d out of range", b.Facts[i].PlayerNum)
		}
		b.Facts[i].PlayerNum = num
	}

	for i := range b.Events {
		ref, ok := m.StoreRef(b.Events[i].PlayerNum)
		if !ok {
			return fmt.Errorf("event player index %d out of range", *b.Events[i].PlayerNum)
		}
		b.Events[i].PlayerNum = ref

		payload, ok := mapPayloadPlayers(b.Events[i].Payload, m)
		if !ok {
			return fmt.Errorf("event %s payload references player out of range", b.Events[i].Type)
		}
		b.Events[i].Payload = payload
	}

	for i := range b.Rulers {
		num, ok := m.Store(b.Rulers[i].PlayerNum)
		if !ok {
			return fmt.Errorf("ruler player index %d out of range", b.Rulers[i].PlayerNum)
		}
		b.Rulers[i].PlayerNum = num
	}

	for i := range b.Cities {
		num, ok := m.Store(b.Cities[i].PlayerNum)
		if !ok {
			return fmt.Errorf("city player index %d out of range", b.Cities[i].PlayerNum)
		}
		b.Cities[i].PlayerNum = num
	}

	return nil
}

// mapPayloadPlayers rewrites the payload variants that carry a counterparty
// player reference.
func mapPayloadPlayers(p entities.EventPayload, m entities.PlayerNumMap) (entities.EventPayload, bool) {
	switch v := p.(type) {
	case entities.DiplomacyPayload:
		ref, ok := m.StoreRef(v.OtherPlayer)
		if !ok {
			return nil, false
		}
		v.OtherPlayer = ref
		return v, true
	case entities.CityEventPayload:
		ref, ok := m.StoreRef(v.FromPlayer)
		if !ok {
			return nil, false
		}
		v.FromPlayer = ref
		return v, true
	}
	return p, true
}

// factSeriesFlags surfaces series that begin after turn 1 as data-quality
// flags. Whether the missing first turn is a parser omission or genuinely
// absent from the source is unresolved, so the gap is recorded, never
// backfilled.
func factSeriesFlags(b *entities.MatchBundle) []entities.QualityFlag {
	type seriesKey struct {
		player int
		kind   entities.FactKind
		sub    string
	}
	firstTurn := make(map[seriesKey]int)
	for _, f := range b.Facts {
		k := seriesKey{f.PlayerNum, f.Kind, f.Subcategory}
		if t, seen := firstTurn[k]; !seen || f.Turn < t {
			firstTurn[k] = f.Turn
		}
	}

	var flags []entities.QualityFlag
	for k, t := range firstTurn {
		if t <= 1 {
			continue
		}
		detail := fmt.Sprintf("player %d %s", k.player, k.kind)
		if k.sub != "" {
			detail += " " + k.sub
		}
		flags = append(flags, entities.QualityFlag{
			Flag:   entities.FlagMissingTurnOne,
			Detail: detail,
		})
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Detail < flags[j].Detail })
	return flags
}
