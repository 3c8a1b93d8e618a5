package usecase

import (
	"fmt"
	"math"

	"go.ngs.io/vsop87/internal/adapter/report"
	"go.ngs.io/vsop87/internal/adapter/store/trunc"
	"go.ngs.io/vsop87/internal/domain"
)

// ModelLoader reads a model file of any supported format.
type ModelLoader func(path string) (*domain.Model, error)

// TruncateRequest describes one truncation run
type TruncateRequest struct {
	Input  string // Standard or compact model file
	Output string // Compact file to write

	// ReportPath is optional; no report file is written when empty
	ReportPath string

	// Interval of validity, days from J2000
	StartTT float64
	EndTT   float64

	// Threshold is the tolerated error in radians (AU for rectangular
	// coordinates and the radius, before body scaling)
	Threshold float64
}

// TruncateResult is what a truncation run produced
type TruncateResult struct {
	Report *report.Report

	// Unsorted lists series whose terms are not in non-increasing amplitude
	// order, for which truncation may have removed more than necessary
	Unsorted []domain.SeriesRef
}

// TruncateUseCase loads, truncates, trims and writes models
type TruncateUseCase struct {
	load ModelLoader
}

// NewTruncateUseCase creates a new truncation use case
func NewTruncateUseCase(load ModelLoader) *TruncateUseCase {
	return &TruncateUseCase{load: load}
}

// Validate checks if the request is valid
func (r *TruncateRequest) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("input path must be provided")
	}
	if r.Output == "" {
		return fmt.Errorf("output path must be provided")
	}
	if r.Input == r.Output {
		return fmt.Errorf("output must differ from input")
	}
	if r.Threshold < 0 || math.IsNaN(r.Threshold) || math.IsInf(r.Threshold, 0) {
		return fmt.Errorf("threshold must be a finite value >= 0")
	}
	if math.IsNaN(r.StartTT) || math.IsNaN(r.EndTT) || r.StartTT > r.EndTT {
		return fmt.Errorf("start must not be after end")
	}
	return nil
}

// Execute runs the truncation and returns a report of what was kept
func (uc *TruncateUseCase) Execute(req TruncateRequest) (*TruncateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	model, err := uc.load(req.Input)
	if err != nil {
		return nil, err
	}
	defer model.Release()

	result := &TruncateResult{Unsorted: domain.UnsortedSeries(model)}

	if err := domain.Truncate(model, req.StartTT, req.EndTT, req.Threshold); err != nil {
		return nil, fmt.Errorf("failed to truncate %s: %w", req.Input, err)
	}
	domain.Trim(model)

	if err := trunc.WriteFile(req.Output, model); err != nil {
		return nil, err
	}

	result.Report = report.New(model, req.StartTT, req.EndTT, req.Threshold)
	result.Report.Source = req.Input
	result.Report.Output = req.Output

	if req.ReportPath != "" {
		if err := report.Save(req.ReportPath, result.Report); err != nil {
			return nil, err
		}
	}

	return result, nil
}
