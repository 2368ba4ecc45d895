package handlers

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/ports"
	"github.com/becked/prospector-sub006/internal/infrastructure/roster"
)

// RosterHandler loads a roster export into the participant table.
type RosterHandler struct {
	store ports.Store
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(store ports.Store) *RosterHandler {
	return &RosterHandler{store: store}
}

// Handle upserts the roster file's participants and returns how many were
// processed.
func (h *RosterHandler) Handle(ctx context.Context, path string) (int, error) {
	participants, err := roster.LoadRoster(path)
	if err != nil {
		return 0, err
	}
	if err := h.store.UpsertParticipants(ctx, participants); err != nil {
		return 0, err
	}
	return len(participants), nil
}
