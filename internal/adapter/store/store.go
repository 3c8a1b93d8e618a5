package store

import (
	"errors"

	"go.ngs.io/vsop87/internal/domain"
)

// ErrModelNotFound is returned when no file holds the requested body and version.
var ErrModelNotFound = errors.New("model not found")

// Format names an on-disk model format.
type Format string

const (
	// FormatStandard is the fixed-column text format published with VSOP87.
	FormatStandard Format = "vsop87"
	// FormatCompact is the truncated format written by this module.
	FormatCompact Format = "trunc"
)

// ModelInfo describes one model file.
type ModelInfo struct {
	Path    string         `json:"path"`
	Format  Format         `json:"format"`
	Version domain.Version `json:"version"`
	Body    domain.Body    `json:"body"`
}

// ModelSource is the interface for locating and loading VSOP87 models.
type ModelSource interface {
	// LoadModel returns the model for a body in the given coordinate version.
	// The returned model is shared and must be treated as read-only.
	LoadModel(body domain.Body, version domain.Version) (*domain.Model, error)

	// ListModels returns every model file the source knows about.
	ListModels() ([]ModelInfo, error)
}
