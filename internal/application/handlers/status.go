package handlers

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/domain/ports"
)

// Status is a snapshot of the store for reporting.
type Status struct {
	TableCounts map[string]int64
	Flags       []entities.QualityFlag
}

// StatusHandler reports store row counts and outstanding data-quality flags.
type StatusHandler struct {
	store ports.Store
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(store ports.Store) *StatusHandler {
	return &StatusHandler{store: store}
}

// Handle collects the current status snapshot.
func (h *StatusHandler) Handle(ctx context.Context) (*Status, error) {
	counts, err := h.store.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := h.store.ListQualityFlags(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{TableCounts: counts, Flags: flags}, nil
}
