package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/domain/ports"
)

// ResolveSummary reports the outcome of one identity-resolution pass.
type ResolveSummary struct {
	Players          int
	Linked           int
	Overridden       int
	Unlinked         int
	SkippedOverrides int
}

// ResolveService links match-scoped players to persistent participants.
// Matching is deliberately precision-over-recall: a manual override always
// wins, exact normalized-name equality links, everything else stays
// unlinked. A false positive silently corrupts cross-match aggregates; a
// false negative only costs coverage and is fixable through the override
// file.
type ResolveService struct {
	store  ports.Store
	roster ports.Roster
	logger zerolog.Logger
}

// NewResolveService creates a resolver over the given store and roster.
func NewResolveService(store ports.Store, roster ports.Roster, logger zerolog.Logger) *ResolveService {
	return &ResolveService{store: store, roster: roster, logger: logger}
}

// overrideKey addresses one override entry. The external match id is the
// stable identifier that survives re-imports; the store's own match id never
// appears here.
type overrideKey struct {
	externalMatchID string
	playerName      string
}

// ResolveAll produces zero-or-one link for every player of every match and
// applies them in one exclusive bulk update. Re-running with the same roster
// and override set always produces the same link set.
func (s *ResolveService) ResolveAll(ctx context.Context, overrides []entities.NameOverride) (*ResolveSummary, error) {
	participants, err := s.roster.Participants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	byID := make(map[int64]*entities.Participant, len(participants))
	for i := range participants {
		byID[participants[i].ID] = &participants[i]
	}

	// Index by normalized name; a name shared by several participants can
	// never auto-match, so collisions are tombstoned.
	byName := make(map[string]*entities.Participant, len(participants))
	for i := range participants {
		name := participants[i].NormalizedName
		if _, taken := byName[name]; taken {
			byName[name] = nil
			continue
		}
		byName[name] = &participants[i]
	}

	summary := &ResolveSummary{}

	// Overrides referencing an unknown participant are logged and skipped,
	// never fatal.
	valid := make([]entities.NameOverride, 0, len(overrides))
	byOverride := make(map[overrideKey]int64, len(overrides))
	for _, o := range overrides {
		if _, known := byID[o.ParticipantID]; !known {
			summary.SkippedOverrides++
			s.logger.Warn().
				Str("match", o.ExternalMatchID).
				Str("player", o.PlayerName).
				Int64("participant", o.ParticipantID).
				Msg("override references unknown participant, skipping")
			continue
		}
		valid = append(valid, o)
		byOverride[overrideKey{o.ExternalMatchID, o.PlayerName}] = o.ParticipantID
	}
	if err := s.store.ReplaceOverrides(ctx, valid); err != nil {
		return nil, fmt.Errorf("storing overrides: %w", err)
	}

	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	var links []entities.PlayerLink
	for _, match := range matches {
		players, err := s.store.ListPlayers(ctx, match.ID)
		if err != nil {
			return nil, err
		}
		for _, player := range players {
			link := s.resolvePlayer(&match, &player, byOverride, byName)
			links = append(links, link)

			summary.Players++
			switch link.Status {
			case entities.LinkOverride:
				summary.Overridden++
			case entities.LinkLinked:
				summary.Linked++
			default:
				summary.Unlinked++
			}
		}
	}

	// One exclusive transaction: the bulk link update never interleaves
	// with importer writes to player rows.
	if err := s.store.UpdateLinks(ctx, links); err != nil {
		return nil, fmt.Errorf("applying links: %w", err)
	}

	s.logger.Info().
		Int("players", summary.Players).
		Int("linked", summary.Linked).
		Int("overridden", summary.Overridden).
		Int("unlinked", summary.Unlinked).
		Int("skipped_overrides", summary.SkippedOverrides).
		Msg("identity resolution finished")

	return summary, nil
}

// resolvePlayer decides one player's link, in priority order: override by
// (stable external match id, raw name), then unique normalized-name match,
// otherwise unlinked. Unlinked is a terminal, valid state.
func (s *ResolveService) resolvePlayer(
	match *entities.Match,
	player *entities.Player,
	byOverride map[overrideKey]int64,
	byName map[string]*entities.Participant,
) entities.PlayerLink {
	if match.ExternalMatchID != "" {
		if id, found := byOverride[overrideKey{match.ExternalMatchID, player.Name}]; found {
			return entities.PlayerLink{
				MatchID:       match.ID,
				PlayerNum:     player.PlayerNum,
				ParticipantID: &id,
				Status:        entities.LinkOverride,
			}
		}
	}

	if p := byName[entities.NormalizeName(player.Name)]; p != nil {
		return entities.PlayerLink{
			MatchID:       match.ID,
			PlayerNum:     player.PlayerNum,
			ParticipantID: &p.ID,
			Status:        entities.LinkLinked,
		}
	}

	return entities.PlayerLink{
		MatchID:   match.ID,
		PlayerNum: player.PlayerNum,
		Status:    entities.LinkUnlinked,
	}
}
