package domain

import "math"

// Millennia converts days from J2000 into millennia from J2000.
func Millennia(tt float64) float64 {
	return tt / DaysPerMillennium
}

// Coordinates evaluates every formula of m at t (millennia from J2000):
//
//	coord_k = Σ_s t^s · Σ_i A_i·cos(B_i + C_i·t)
//
// Only active series and terms contribute. The explicit float64 conversions
// keep the compiler from fusing multiply-adds, so results round the same way
// on every architecture.
func Coordinates(m *Model, t float64) [MaxCoords]float64 {
	var coords [MaxCoords]float64
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		tpower := 1.0
		for s := 0; s < f.NSeriesCalc; s++ {
			sum := 0.0
			for _, term := range f.Series[s].Active() {
				sum += float64(term.Amplitude * math.Cos(term.Phase+float64(t*term.Frequency)))
			}
			coords[k] += float64(tpower * sum)
			tpower *= t
		}
	}
	return coords
}

// Derivatives evaluates d(coord_k)/dt for every formula of m at t, in
// coordinate units per millennium.
func Derivatives(m *Model, t float64) [MaxCoords]float64 {
	var deriv [MaxCoords]float64
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		tpower := 1.0 // t^s
		dpower := 0.0 // t^(s-1)
		for s := 0; s < f.NSeriesCalc; s++ {
			sinSum := 0.0
			cosSum := 0.0
			for _, term := range f.Series[s].Active() {
				angle := term.Phase + float64(t*term.Frequency)
				sinSum += float64(float64(term.Amplitude*term.Frequency) * math.Sin(angle))
				if s > 0 {
					cosSum += float64(term.Amplitude * math.Cos(angle))
				}
			}
			deriv[k] += float64(float64(float64(s)*dpower)*cosSum) - float64(tpower*sinSum)
			dpower = tpower
			tpower *= t
		}
	}
	return deriv
}
