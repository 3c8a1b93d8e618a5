package domain

import (
	"math"
	"time"
)

// j2000 is the J2000.0 epoch: 2000-01-01 12:00:00.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// DaysSinceJ2000 returns the days elapsed from J2000.0 to t. UTC stands in
// for terrestrial time, which is good to about a minute.
func DaysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

// TimeFromJ2000 is the inverse of DaysSinceJ2000.
func TimeFromJ2000(tt float64) time.Time {
	return j2000.Add(time.Duration(math.Round(tt * 24 * float64(time.Hour))))
}

// CalcPosition returns the equatorial J2000 position (AU) of the model's body
// at tt days from J2000.
func CalcPosition(m *Model, tt float64) (Vec3, error) {
	if m.NCoords < MinCoords || m.NCoords > MaxCoords {
		return Vec3{}, NewError(ErrConsistency, "", 0, "model has %d coordinates", m.NCoords)
	}

	coords := Coordinates(m, Millennia(tt))

	var eclip Vec3
	switch m.Version {
	case HelioRectJ2000, HelioRectDate:
		eclip = Vec3{X: coords[0], Y: coords[1], Z: coords[2]}
	case HelioSpherJ2000, HelioSpherDate:
		eclip = SphericalToRectangular(coords[0], coords[1], coords[2])
	default:
		return Vec3{}, unsupportedf("position not implemented for version %s", m.Version)
	}

	return EclipticToEquatorial(eclip), nil
}

// CalcPositionVelocity returns the equatorial J2000 position (AU) and
// velocity (AU/day) at tt days from J2000. Only heliocentric spherical J2000
// models are supported.
func CalcPositionVelocity(m *Model, tt float64) (Vec3, Vec3, error) {
	if m.Version != HelioSpherJ2000 {
		return Vec3{}, Vec3{}, unsupportedf("velocity not implemented for version %s", m.Version)
	}
	if m.NCoords != 3 {
		return Vec3{}, Vec3{}, NewError(ErrConsistency, "", 0, "expected 3 coordinates but found %d", m.NCoords)
	}

	t := Millennia(tt)
	coords := Coordinates(m, t)
	pos := EclipticToEquatorial(SphericalToRectangular(coords[0], coords[1], coords[2]))

	deriv := Derivatives(m, t)

	cosLon := math.Cos(coords[0])
	sinLon := math.Sin(coords[0])
	cosLat := math.Cos(coords[1])
	sinLat := math.Sin(coords[1])
	r := coords[2]
	dlonDt := deriv[0]
	dlatDt := deriv[1]
	drDt := deriv[2]

	eclip := Vec3{
		X: float64(drDt*cosLat*cosLon) - float64(r*sinLat*cosLon*dlatDt) - float64(r*cosLat*sinLon*dlonDt),
		Y: float64(drDt*cosLat*sinLon) - float64(r*sinLat*sinLon*dlatDt) + float64(r*cosLat*cosLon*dlonDt),
		Z: float64(drDt*sinLat) + float64(r*cosLat*dlatDt),
	}

	// Per millennium to per day.
	vel := EclipticToEquatorial(eclip).Scale(1 / DaysPerMillennium)

	return pos, vel, nil
}
