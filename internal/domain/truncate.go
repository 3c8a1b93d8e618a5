package domain

import "math"

// coordScaling weighs the error budget of coordinate k. Angles are equally
// important for every body; distances are scaled by the body's mean distance
// from the Sun, because the same error in AU is less visible further out.
func coordScaling(m *Model, k int) (float64, error) {
	switch m.Version {
	case HelioRectJ2000, HelioRectDate:
	case HelioSpherJ2000, HelioSpherDate:
		if k == 0 || k == 1 {
			return 1.0, nil
		}
	default:
		return 0, unsupportedf("cannot truncate version %s", m.Version)
	}

	scaling, ok := meanDistanceAU[m.Body]
	if !ok {
		return 0, NewError(ErrUnsupported, "", 0, "cannot truncate body %s", m.Body)
	}
	return scaling, nil
}

func power(t float64, n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= t
	}
	return p
}

// Truncate disables as many trailing terms as possible while the summed
// amplitude of the removed terms, evaluated at the largest |t| in
// [tt1, tt2] (days from J2000), stays within amplitudeThreshold scaled per
// coordinate. Truncation always starts from the full model, so calling it
// again with the same arguments yields the same counts.
//
// If the model's version or body cannot be truncated the model is left
// untouched.
func Truncate(m *Model, tt1, tt2, amplitudeThreshold float64) error {
	t1 := math.Abs(Millennia(tt1))
	t2 := math.Abs(Millennia(tt2))
	t := math.Max(t1, t2)

	var budget [MaxCoords]float64
	for k := 0; k < m.NCoords; k++ {
		scaling, err := coordScaling(m, k)
		if err != nil {
			return err
		}
		budget[k] = scaling * amplitudeThreshold
	}

	m.Reset()

	for k := 0; k < m.NCoords; k++ {
		truncateFormula(&m.Formulas[k], t, budget[k])
	}
	return nil
}

// truncateFormula greedily removes the smallest last-active term among all
// series until the next removal would exceed budget.
func truncateFormula(f *Formula, t, budget float64) {
	accum := 0.0
	for {
		var best *Series
		bestIncr := -1.0
		for s := 0; s < f.NSeriesCalc; s++ {
			series := &f.Series[s]
			if series.Calc == 0 {
				continue
			}
			incr := power(t, s) * math.Abs(series.Terms[series.Calc-1].Amplitude)
			if best == nil || incr < bestIncr {
				best = series
				bestIncr = incr
			}
		}

		if best == nil || accum+bestIncr > budget {
			return
		}

		accum += bestIncr
		best.Calc--
	}
}

// Trim drops trailing series that truncation left without active terms.
// An empty series below a non-empty one stays, since series positions are
// powers of t.
func Trim(m *Model) {
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		for f.NSeriesCalc > 0 && f.Series[f.NSeriesCalc-1].Calc == 0 {
			f.NSeriesCalc--
		}
	}
}
