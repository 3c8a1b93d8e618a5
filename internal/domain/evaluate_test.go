package domain

import (
	"errors"
	"math"
	"testing"
)

// TestCoordinates_ConstantTerm checks that A=1, B=0, C=0 evaluates to 1 at any time.
func TestCoordinates_ConstantTerm(t *testing.T) {
	m := buildModel(t, HelioRectJ2000, Earth, [][][]Term{
		{{{1.0, 0.0, 0.0}}},
	})

	for _, tm := range []float64{-3.2, -1, 0, 0.25, 1, 7.5} {
		coords := Coordinates(m, tm)
		if coords[0] != 1.0 {
			t.Errorf("t=%v: expected 1.0, got %.17g", tm, coords[0])
		}
	}
}

// TestCoordinates_Polynomial checks the power-of-t weighting of each series.
func TestCoordinates_Polynomial(t *testing.T) {
	// coord = 2 + 3t + 4t^2 with constant (zero frequency) terms.
	m := buildModel(t, HelioRectJ2000, Earth, [][][]Term{
		{{{2, 0, 0}}, {{3, 0, 0}}, {{4, 0, 0}}},
	})

	tm := 0.5
	want := 2 + 3*tm + 4*tm*tm
	got := Coordinates(m, tm)[0]
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("expected %.17g, got %.17g", want, got)
	}
}

// TestCoordinates_IgnoresDisabledTerms checks that terms past Calc do not contribute.
func TestCoordinates_IgnoresDisabledTerms(t *testing.T) {
	m := buildModel(t, HelioRectJ2000, Earth, [][][]Term{
		{{{1, 0, 0}, {100, 0, 0}}, {{1000, 0, 0}}},
	})
	m.Formulas[0].Series[0].Calc = 1
	m.Formulas[0].NSeriesCalc = 1

	if got := Coordinates(m, 2)[0]; got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}

// TestCoordinates_Cosine checks a single periodic term.
func TestCoordinates_Cosine(t *testing.T) {
	m := buildModel(t, HelioRectJ2000, Earth, [][][]Term{
		{{{0.5, math.Pi / 3, 2 * math.Pi}}},
	})

	tm := 0.25
	want := 0.5 * math.Cos(math.Pi/3+2*math.Pi*tm)
	if got := Coordinates(m, tm)[0]; math.Abs(got-want) > 1e-15 {
		t.Errorf("expected %.17g, got %.17g", want, got)
	}
}

// TestDerivatives_MatchFiniteDifference compares the analytic derivative with
// a central difference of Coordinates.
func TestDerivatives_MatchFiniteDifference(t *testing.T) {
	m := buildModel(t, HelioSpherJ2000, Mars, [][][]Term{
		{
			{{1.2, 0.3, 3.1}, {0.4, 1.1, 7.9}},
			{{0.8, 2.0, 1.3}},
			{{0.05, 0.7, 11.0}},
		},
		{
			{{0.02, 0.1, 5.5}},
		},
		{
			{{1.5, 0, 0}, {0.1, 2.2, 4.4}},
			{{0.01, 0.5, 9.0}},
		},
	})

	const h = 1e-6
	for _, tm := range []float64{-0.8, -0.1, 0, 0.3, 1.2} {
		deriv := Derivatives(m, tm)
		plus := Coordinates(m, tm+h)
		minus := Coordinates(m, tm-h)
		for k := 0; k < m.NCoords; k++ {
			numeric := (plus[k] - minus[k]) / (2 * h)
			if math.Abs(deriv[k]-numeric) > 1e-6 {
				t.Errorf("t=%v coord %d: analytic %.12g, numeric %.12g", tm, k, deriv[k], numeric)
			}
		}
	}
}

func TestSphericalToRectangular(t *testing.T) {
	tests := []struct {
		name        string
		lon, lat, r float64
		want        Vec3
	}{
		{"x axis", 0, 0, 2, Vec3{X: 2}},
		{"y axis", math.Pi / 2, 0, 1, Vec3{Y: 1}},
		{"north pole", 0, math.Pi / 2, 3, Vec3{Z: 3}},
		{"diagonal", math.Pi / 4, 0, math.Sqrt2, Vec3{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphericalToRectangular(tt.lon, tt.lat, tt.r)
			if got.Sub(tt.want).Norm() > 1e-15 {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEclipticToEquatorial(t *testing.T) {
	got := EclipticToEquatorial(Vec3{Z: 1})
	want := Vec3{X: -0.000000190919, Y: -0.397776982902, Z: 0.917482137087}
	if got != want {
		t.Errorf("rotating z axis: got %+v, want %+v", got, want)
	}

	got = EclipticToEquatorial(Vec3{X: 1})
	want = Vec3{X: 1, Y: -0.000000479966}
	if got != want {
		t.Errorf("rotating x axis: got %+v, want %+v", got, want)
	}

	// The matrix is a rotation: lengths are preserved.
	v := Vec3{X: 0.3, Y: -1.7, Z: 0.9}
	if diff := math.Abs(EclipticToEquatorial(v).Norm() - v.Norm()); diff > 1e-9 {
		t.Errorf("rotation changed vector length by %g", diff)
	}
}

func TestCalcPosition_Rectangular(t *testing.T) {
	m := buildModel(t, HelioRectJ2000, Earth, [][][]Term{
		{{{1, 0, 0}}},
		{{{0, 0, 0}}},
		{{{0, 0, 0}}},
	})

	pos, err := CalcPosition(m, 1234.5)
	if err != nil {
		t.Fatalf("CalcPosition: %v", err)
	}
	want := EclipticToEquatorial(Vec3{X: 1})
	if pos != want {
		t.Errorf("got %+v, want %+v", pos, want)
	}
}

func TestCalcPosition_Spherical(t *testing.T) {
	m := buildModel(t, HelioSpherDate, Venus, [][][]Term{
		{{{math.Pi / 2, 0, 0}}},
		{{{0, 0, 0}}},
		{{{0.72, 0, 0}}},
	})

	pos, err := CalcPosition(m, 0)
	if err != nil {
		t.Fatalf("CalcPosition: %v", err)
	}
	want := EclipticToEquatorial(Vec3{X: 0.72 * math.Cos(math.Pi/2), Y: 0.72})
	if pos.Sub(want).Norm() > 1e-15 {
		t.Errorf("got %+v, want %+v", pos, want)
	}
}

func TestCalcPosition_Rejects(t *testing.T) {
	elliptic := buildModel(t, EllipticJ2000, Mars, [][][]Term{
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
	})
	if _, err := CalcPosition(elliptic, 0); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("elliptic: expected ErrUnsupportedVersion, got %v", err)
	}

	short := buildModel(t, HelioRectJ2000, Mars, [][][]Term{
		{{{1, 0, 0}}},
	})
	if _, err := CalcPosition(short, 0); !errors.Is(err, ErrConsistency) {
		t.Errorf("one coordinate: expected ErrConsistency, got %v", err)
	}

	if _, err := CalcPosition(NewModel(), 0); err == nil {
		t.Error("null model: expected error")
	}
}

// circularOrbit is a spherical J2000 model with lon = omega*t, lat = 0, r = radius.
func circularOrbit(t *testing.T, omega, radius float64) *Model {
	t.Helper()
	return buildModel(t, HelioSpherJ2000, Earth, [][][]Term{
		{{{0, 0, 0}}, {{omega, 0, 0}}},
		{{{0, 0, 0}}},
		{{{radius, 0, 0}}},
	})
}

func TestCalcPositionVelocity_CircularOrbit(t *testing.T) {
	// One revolution per Julian year.
	omega := 2 * math.Pi * 1000
	m := circularOrbit(t, omega, 1.0)

	pos, vel, err := CalcPositionVelocity(m, 100)
	if err != nil {
		t.Fatalf("CalcPositionVelocity: %v", err)
	}

	wantPos, err := CalcPosition(m, 100)
	if err != nil {
		t.Fatalf("CalcPosition: %v", err)
	}
	if pos != wantPos {
		t.Errorf("position differs from CalcPosition: %+v vs %+v", pos, wantPos)
	}

	wantSpeed := omega / DaysPerMillennium
	if math.Abs(vel.Norm()-wantSpeed) > 1e-12 {
		t.Errorf("speed = %.15g AU/day, want %.15g", vel.Norm(), wantSpeed)
	}
}

func TestCalcPositionVelocity_MatchesFiniteDifference(t *testing.T) {
	m := buildModel(t, HelioSpherJ2000, Mars, [][][]Term{
		{{{6.2, 0, 0}, {0.1, 0.4, 3340.6}}, {{3340.6, 0, 0}}},
		{{{0.03, 1.1, 3340.6}}},
		{{{1.53, 0, 0}, {0.14, 3.1, 3340.6}}, {{0.011, 5.0, 3340.6}}},
	})

	const h = 0.01
	for _, tt := range []float64{-5000, 0, 2500.5} {
		_, vel, err := CalcPositionVelocity(m, tt)
		if err != nil {
			t.Fatalf("CalcPositionVelocity: %v", err)
		}
		plus, _ := CalcPosition(m, tt+h)
		minus, _ := CalcPosition(m, tt-h)
		numeric := plus.Sub(minus).Scale(1 / (2 * h))
		if diff := vel.Sub(numeric).Norm(); diff > 1e-9 {
			t.Errorf("tt=%v: velocity %+v, numeric %+v (diff %g)", tt, vel, numeric, diff)
		}
	}
}

func TestCalcPositionVelocity_Rejects(t *testing.T) {
	rect := buildModel(t, HelioRectJ2000, Mars, [][][]Term{
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
	})
	_, _, err := CalcPositionVelocity(rect, 0)
	if !errors.Is(err, ErrUnsupportedVersion) || !errors.Is(err, ErrUnsupported) {
		t.Errorf("rectangular: expected unsupported version, got %v", err)
	}

	ofDate := buildModel(t, HelioSpherDate, Mars, [][][]Term{
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
	})
	if _, _, err := CalcPositionVelocity(ofDate, 0); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("spherical of date: expected unsupported version, got %v", err)
	}

	four := buildModel(t, HelioSpherJ2000, Mars, [][][]Term{
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
	})
	if _, _, err := CalcPositionVelocity(four, 0); !errors.Is(err, ErrConsistency) {
		t.Errorf("four coordinates: expected ErrConsistency, got %v", err)
	}
}

func TestDaysSinceJ2000_RoundTrip(t *testing.T) {
	if got := DaysSinceJ2000(j2000); got != 0 {
		t.Errorf("DaysSinceJ2000(J2000) = %v, want 0", got)
	}
	tt := 8765.25
	if got := DaysSinceJ2000(TimeFromJ2000(tt)); math.Abs(got-tt) > 1e-9 {
		t.Errorf("round trip: got %v, want %v", got, tt)
	}
}
