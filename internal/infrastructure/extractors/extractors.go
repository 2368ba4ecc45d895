// Package extractors turns a parsed save document into plain record bundles,
// one extractor per record family. Extractors are pure: they never touch the
// store, and a failure in one family never blocks the others. All player
// references in their output are save-space (0-based) indices; the importer
// applies the player-number map before load.
package extractors

import (
	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// Record family names used in extraction errors and quality flags.
const (
	FamilyMatch     = "match"
	FamilyPlayers   = "players"
	FamilyTurnFacts = "turn_facts"
	FamilyMemory    = "memory_events"
	FamilyLog       = "log_events"
	FamilyRulers    = "rulers"
	FamilyCities    = "cities"
	FamilyTerritory = "territory"
)

// ExtractAll runs every extractor against the document and collects their
// output into one bundle. Family failures are returned as
// *entities.ExtractionError values; the bundle still carries every family
// that succeeded. Match metadata and players are the exception: without them
// nothing else can be loaded, so a nil bundle is returned when either fails.
func ExtractAll(root *archive.Node) (*entities.MatchBundle, []error) {
	var errs []error

	match, err := Match(root)
	if err != nil {
		return nil, []error{entities.NewExtractionError(FamilyMatch, err)}
	}

	players, err := Players(root)
	if err != nil {
		return nil, []error{entities.NewExtractionError(FamilyPlayers, err)}
	}

	bundle := &entities.MatchBundle{
		Match:   match,
		Players: players,
	}

	if facts, err := TurnFacts(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyTurnFacts, err))
	} else {
		bundle.Facts = facts
	}

	// The two event taxonomies are disjoint by type tag, so the outputs
	// concatenate with no deduplication step.
	if events, err := MemoryEvents(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyMemory, err))
	} else {
		bundle.Events = append(bundle.Events, events...)
	}
	if events, err := LogEvents(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyLog, err))
	} else {
		bundle.Events = append(bundle.Events, events...)
	}

	if rulers, err := Rulers(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyRulers, err))
	} else {
		bundle.Rulers = rulers
	}

	if cities, projects, err := Cities(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyCities, err))
	} else {
		bundle.Cities = cities
		bundle.CityProjects = projects
	}

	if tiles, err := Territory(root); err != nil {
		errs = append(errs, entities.NewExtractionError(FamilyTerritory, err))
	} else {
		bundle.Tiles = tiles
	}

	return bundle, errs
}
