// Package handlers exposes the application's command-facing operations.
// Handlers stay thin: they translate between the CLI and the domain
// services.
package handlers

import (
	"context"

	"github.com/becked/prospector-sub006/internal/domain/services"
)

// ImportHandler drives a batch archive import.
type ImportHandler struct {
	importService *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Handle imports every archive in dir and returns the batch summary.
func (h *ImportHandler) Handle(ctx context.Context, dir string, force bool) (*services.ImportSummary, error) {
	return h.importService.ImportDir(ctx, dir, services.ImportOptions{Force: force})
}
