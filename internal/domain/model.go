// Package domain holds the VSOP87 model representation and the numeric
// algorithms that evaluate and truncate it.
package domain

import "math"

// Capacity limits of a Model.
const (
	MinCoords = 3
	MaxCoords = 6
	MaxSeries = 10
	// MaxTerms bounds the declared length of one series. The longest series
	// in the published files has a few thousand terms.
	MaxTerms = 100000
)

// DaysPerMillennium converts days from J2000 into the millennia used by VSOP87 series.
const DaysPerMillennium = 365250.0

// Term is one cosine component: Amplitude * cos(Phase + t*Frequency).
type Term struct {
	Amplitude float64
	Phase     float64
	Frequency float64
}

// Series groups the terms multiplied by one power of t.
// Terms holds every loaded term; only the first Calc are evaluated.
type Series struct {
	Terms []Term
	Calc  int
}

// Total returns the number of terms loaded for the series.
func (s *Series) Total() int {
	return len(s.Terms)
}

// Active returns the terms currently enabled.
func (s *Series) Active() []Term {
	return s.Terms[:s.Calc]
}

// Formula is the polynomial-in-t sum of series for one coordinate.
// Series[s] always belongs to power s.
type Formula struct {
	Series       [MaxSeries]Series
	NSeriesTotal int
	NSeriesCalc  int
}

// ActiveTerms counts the terms enabled across the active series.
func (f *Formula) ActiveTerms() int {
	n := 0
	for s := 0; s < f.NSeriesCalc; s++ {
		n += f.Series[s].Calc
	}
	return n
}

// TotalTerms counts every loaded term of the formula.
func (f *Formula) TotalTerms() int {
	n := 0
	for s := 0; s < f.NSeriesTotal; s++ {
		n += f.Series[s].Total()
	}
	return n
}

// Model is a loaded VSOP87 model for one body.
type Model struct {
	Version  Version
	Body     Body
	NCoords  int
	Formulas [MaxCoords]Formula
}

// NewModel returns a model in the null state.
func NewModel() *Model {
	m := &Model{}
	m.Release()
	return m
}

// Release drops all term storage and returns the model to the null state.
// It is safe to call on a model that is already null.
func (m *Model) Release() {
	*m = Model{Version: InvalidVersion, Body: InvalidBody}
}

// IsNull reports whether the model holds no data.
func (m *Model) IsNull() bool {
	if m.Version != InvalidVersion || m.Body != InvalidBody || m.NCoords != 0 {
		return false
	}
	for k := range m.Formulas {
		if m.Formulas[k].NSeriesTotal != 0 {
			return false
		}
	}
	return true
}

// AddFormula appends an empty formula and returns it.
func (m *Model) AddFormula() (*Formula, bool) {
	if m.NCoords >= MaxCoords {
		return nil, false
	}
	f := &m.Formulas[m.NCoords]
	m.NCoords++
	return f, true
}

// AddSeries appends a series of nterms zeroed terms to f and returns it.
// The term storage is allocated once here and never resized. It fails when
// f already holds MaxSeries series or nterms is outside [0, MaxTerms].
func (f *Formula) AddSeries(nterms int) (*Series, bool) {
	if f.NSeriesTotal >= MaxSeries || nterms < 0 || nterms > MaxTerms {
		return nil, false
	}
	s := &f.Series[f.NSeriesTotal]
	s.Terms = make([]Term, nterms)
	s.Calc = nterms
	f.NSeriesTotal++
	f.NSeriesCalc = f.NSeriesTotal
	return s, true
}

// Reset undoes any truncation or trimming: every calc count returns to its total.
func (m *Model) Reset() {
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		f.NSeriesCalc = f.NSeriesTotal
		for s := 0; s < f.NSeriesTotal; s++ {
			f.Series[s].Calc = f.Series[s].Total()
		}
	}
}

// TermCount returns the number of cosine terms that evaluation will use.
func (m *Model) TermCount() int {
	n := 0
	for k := 0; k < m.NCoords; k++ {
		n += m.Formulas[k].ActiveTerms()
	}
	return n
}

// SeriesRef locates a series inside a model.
type SeriesRef struct {
	Coord  int
	Series int
}

// UnsortedSeries lists the active series whose terms are not ordered by
// non-increasing absolute amplitude. Truncation only ever removes the last
// active term of a series, so it assumes this ordering; the published
// VSOP87 files satisfy it.
func UnsortedSeries(m *Model) []SeriesRef {
	var refs []SeriesRef
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		for s := 0; s < f.NSeriesCalc; s++ {
			terms := f.Series[s].Active()
			for i := 1; i < len(terms); i++ {
				if math.Abs(terms[i].Amplitude) > math.Abs(terms[i-1].Amplitude) {
					refs = append(refs, SeriesRef{Coord: k, Series: s})
					break
				}
			}
		}
	}
	return refs
}
