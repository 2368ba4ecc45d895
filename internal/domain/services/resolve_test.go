package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/domain/mocks"
)

func linkByNum(t *testing.T, links []entities.PlayerLink, matchID int64, playerNum int) entities.PlayerLink {
	t.Helper()
	for _, l := range links {
		if l.MatchID == matchID && l.PlayerNum == playerNum {
			return l
		}
	}
	t.Fatalf("no link for match %d player %d", matchID, playerNum)
	return entities.PlayerLink{}
}

func TestResolveAll(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{
			{ID: 1, ExternalMatchID: "OW-2024-R3-17"},
		},
		Players: map[int64][]entities.Player{
			// Save indices 0 and 1, now store numbers 1 and 2.
			1: {
				{MatchID: 1, PlayerNum: 1, Name: "Ninja [OW]", NormalizedName: "ninjaow"},
				{MatchID: 1, PlayerNum: 2, Name: "Stranger", NormalizedName: "stranger"},
			},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 10, DisplayName: "Ninja", NormalizedName: "ninjaow"},
		{ID: 11, DisplayName: "Someone Else", NormalizedName: "someoneelse"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	summary, err := svc.ResolveAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Players)
	assert.Equal(t, 1, summary.Linked)
	assert.Equal(t, 1, summary.Unlinked)
	assert.Equal(t, 0, summary.Overridden)

	first := linkByNum(t, store.UpdatedLinks, 1, 1)
	require.NotNil(t, first.ParticipantID)
	assert.Equal(t, int64(10), *first.ParticipantID)
	assert.Equal(t, entities.LinkLinked, first.Status)

	// No roster name matches: explicitly unlinked, not an error.
	second := linkByNum(t, store.UpdatedLinks, 1, 2)
	assert.Nil(t, second.ParticipantID)
	assert.Equal(t, entities.LinkUnlinked, second.Status)

	// Every player got exactly one link in a single bulk update.
	assert.Len(t, store.UpdatedLinks, 2)
	assert.Equal(t, 1, store.UpdateLinksCalls)
}

func TestResolveAll_OverrideWins(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1, ExternalMatchID: "OW-2024-R3-17"}},
		Players: map[int64][]entities.Player{
			1: {{MatchID: 1, PlayerNum: 1, Name: "Ninja [OW]", NormalizedName: "ninjaow"}},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 10, DisplayName: "Ninja", NormalizedName: "ninjaow"},
		{ID: 20, DisplayName: "Actually B", NormalizedName: "actuallyb"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	// The name would auto-link to participant 10; the override forces 20.
	overrides := []entities.NameOverride{
		{ExternalMatchID: "OW-2024-R3-17", PlayerName: "Ninja [OW]", ParticipantID: 20},
	}
	summary, err := svc.ResolveAll(context.Background(), overrides)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Overridden)
	assert.Equal(t, 0, summary.Linked)

	link := linkByNum(t, store.UpdatedLinks, 1, 1)
	require.NotNil(t, link.ParticipantID)
	assert.Equal(t, int64(20), *link.ParticipantID)
	assert.Equal(t, entities.LinkOverride, link.Status)
	assert.Len(t, store.StoredOverrides, 1)
}

func TestResolveAll_OverrideKeyedByRawName(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1, ExternalMatchID: "OW-2024-R3-17"}},
		Players: map[int64][]entities.Player{
			1: {{MatchID: 1, PlayerNum: 1, Name: "Ninja [OW]", NormalizedName: "ninjaow"}},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 20, DisplayName: "B", NormalizedName: "b"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	// Override names don't match the raw save name, so it never applies.
	overrides := []entities.NameOverride{
		{ExternalMatchID: "OW-2024-R3-17", PlayerName: "ninjaow", ParticipantID: 20},
	}
	summary, err := svc.ResolveAll(context.Background(), overrides)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Overridden)
	assert.Equal(t, 1, summary.Unlinked)
}

func TestResolveAll_UnknownOverrideParticipantSkipped(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1, ExternalMatchID: "OW-2024-R3-17"}},
		Players: map[int64][]entities.Player{
			1: {{MatchID: 1, PlayerNum: 1, Name: "Ninja", NormalizedName: "ninja"}},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 10, DisplayName: "Ninja", NormalizedName: "ninja"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	overrides := []entities.NameOverride{
		{ExternalMatchID: "OW-2024-R3-17", PlayerName: "Ninja", ParticipantID: 999},
	}
	summary, err := svc.ResolveAll(context.Background(), overrides)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedOverrides)
	// The skipped entry neither applies nor reaches the store.
	assert.Empty(t, store.StoredOverrides)
	link := linkByNum(t, store.UpdatedLinks, 1, 1)
	assert.Equal(t, entities.LinkLinked, link.Status)
	assert.Equal(t, int64(10), *link.ParticipantID)
}

func TestResolveAll_AmbiguousNameStaysUnlinked(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1}},
		Players: map[int64][]entities.Player{
			1: {{MatchID: 1, PlayerNum: 1, Name: "Smith", NormalizedName: "smith"}},
		},
	}
	// Two roster entries normalize to the same name: auto-matching is off
	// for that name entirely.
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 10, DisplayName: "Smith", NormalizedName: "smith"},
		{ID: 11, DisplayName: "SMITH", NormalizedName: "smith"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	summary, err := svc.ResolveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unlinked)
	assert.Equal(t, 0, summary.Linked)
}

func TestResolveAll_NoExternalMatchID(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1}}, // save carried no MatchID
		Players: map[int64][]entities.Player{
			1: {{MatchID: 1, PlayerNum: 1, Name: "Ninja", NormalizedName: "ninja"}},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 20, DisplayName: "B", NormalizedName: "b"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	// Overrides are keyed by external match id; without one they cannot
	// apply to this match.
	overrides := []entities.NameOverride{
		{ExternalMatchID: "", PlayerName: "Ninja", ParticipantID: 20},
	}
	summary, err := svc.ResolveAll(context.Background(), overrides)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Overridden)
	assert.Equal(t, 1, summary.Unlinked)
}

func TestResolveAll_Idempotent(t *testing.T) {
	store := &mocks.Store{
		Matches: []entities.Match{{ID: 1, ExternalMatchID: "OW-2024-R3-17"}},
		Players: map[int64][]entities.Player{
			1: {
				{MatchID: 1, PlayerNum: 1, Name: "Ninja", NormalizedName: "ninja"},
				{MatchID: 1, PlayerNum: 2, Name: "Stranger", NormalizedName: "stranger"},
			},
		},
	}
	roster := &mocks.Roster{Result: []entities.Participant{
		{ID: 10, DisplayName: "Ninja", NormalizedName: "ninja"},
	}}
	svc := NewResolveService(store, roster, zerolog.Nop())

	first, err := svc.ResolveAll(context.Background(), nil)
	require.NoError(t, err)
	firstLinks := append([]entities.PlayerLink(nil), store.UpdatedLinks...)

	second, err := svc.ResolveAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstLinks, store.UpdatedLinks[len(firstLinks):])
}

func TestResolveAll_RosterError(t *testing.T) {
	store := &mocks.Store{}
	roster := &mocks.Roster{Err: assert.AnError}
	svc := NewResolveService(store, roster, zerolog.Nop())

	_, err := svc.ResolveAll(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 0, store.UpdateLinksCalls)
}
