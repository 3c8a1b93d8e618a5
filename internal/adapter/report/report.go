// Package report records what a truncation run kept, as a TOML document.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"go.ngs.io/vsop87/internal/domain"
)

// Coordinate holds the before/after counts for one coordinate.
type Coordinate struct {
	Index        int `toml:"index"`
	SeriesTotal  int `toml:"series_total"`
	SeriesActive int `toml:"series_active"`
	TermsTotal   int `toml:"terms_total"`
	TermsActive  int `toml:"terms_active"`
}

// Report summarizes a truncated model.
type Report struct {
	Body        domain.Body    `toml:"body"`
	Version     domain.Version `toml:"version"`
	StartTT     float64        `toml:"start_tt"`
	EndTT       float64        `toml:"end_tt"`
	Threshold   float64        `toml:"threshold"`
	Source      string         `toml:"source,omitempty"`
	Output      string         `toml:"output,omitempty"`
	TermsTotal  int            `toml:"terms_total"`
	TermsActive int            `toml:"terms_active"`
	Coordinates []Coordinate   `toml:"coordinate"`
}

// New captures the current state of m. startTT and endTT are the interval
// (days from J2000) the truncation was computed for.
func New(m *domain.Model, startTT, endTT, threshold float64) *Report {
	r := &Report{
		Body:        m.Body,
		Version:     m.Version,
		StartTT:     startTT,
		EndTT:       endTT,
		Threshold:   threshold,
		Coordinates: make([]Coordinate, 0, m.NCoords),
	}
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		c := Coordinate{
			Index:        k,
			SeriesTotal:  f.NSeriesTotal,
			SeriesActive: f.NSeriesCalc,
			TermsTotal:   f.TotalTerms(),
			TermsActive:  f.ActiveTerms(),
		}
		r.TermsTotal += c.TermsTotal
		r.TermsActive += c.TermsActive
		r.Coordinates = append(r.Coordinates, c)
	}
	return r
}

// Ratio is the fraction of terms kept, or 0 for an empty model.
func (r *Report) Ratio() float64 {
	if r.TermsTotal == 0 {
		return 0
	}
	return float64(r.TermsActive) / float64(r.TermsTotal)
}

// Load reads a report written by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

// Save writes r to path, creating parent directories as needed.
func Save(path string, r *Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
