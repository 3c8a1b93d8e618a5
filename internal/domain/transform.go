package domain

import "math"

// Vec3 is a Cartesian vector in AU (position) or AU/day (velocity).
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// SphericalToRectangular converts longitude and latitude (radians) and
// radius into ecliptic x, y, z.
func SphericalToRectangular(lon, lat, radius float64) Vec3 {
	rCosLat := radius * math.Cos(lat)
	return Vec3{
		X: rCosLat * math.Cos(lon),
		Y: rCosLat * math.Sin(lon),
		Z: radius * math.Sin(lat),
	}
}

// EclipticToEquatorial rotates a VSOP87 J2000 ecliptic vector into the FK5
// equatorial frame:
//
//	X        +1.000000000000  +0.000000440360  -0.000000190919   X
//	Y     =  -0.000000479966  +0.917482137087  -0.397776982902   Y
//	Z FK5     0.000000000000  +0.397776982902  +0.917482137087   Z VSOP87A
func EclipticToEquatorial(v Vec3) Vec3 {
	return Vec3{
		X: v.X + float64(0.000000440360*v.Y) - float64(0.000000190919*v.Z),
		Y: float64(-0.000000479966*v.X) + float64(0.917482137087*v.Y) - float64(0.397776982902*v.Z),
		Z: float64(0.397776982902*v.Y) + float64(0.917482137087*v.Z),
	}
}
