package handlers

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/services"
	"github.com/becked/prospector-sub006/internal/infrastructure/roster"
)

// ResolveHandler drives an identity-resolution pass.
type ResolveHandler struct {
	resolveService *services.ResolveService
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(resolveService *services.ResolveService) *ResolveHandler {
	return &ResolveHandler{resolveService: resolveService}
}

// Handle loads the override file (missing file means no overrides) and runs
// resolution over every imported match.
func (h *ResolveHandler) Handle(ctx context.Context, overridesPath string) (*services.ResolveSummary, error) {
	overrides, err := roster.LoadOverrides(overridesPath)
	if err != nil {
		return nil, err
	}
	return h.resolveService.ResolveAll(ctx, overrides)
}
