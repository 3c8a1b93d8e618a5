package domain

import (
	"fmt"
	"strings"
)

// Version identifies the coordinate scheme of a VSOP87 model.
// Values equal the version digit found in column 17 of a VSOP87 header record.
type Version int

const (
	// InvalidVersion marks a null or unloaded model.
	InvalidVersion Version = -1
	// EllipticJ2000 holds orbital elements (VSOP87 files).
	EllipticJ2000 Version = 0
	// HelioRectJ2000 holds heliocentric rectangular coordinates at J2000 (VSOP87A files).
	HelioRectJ2000 Version = 1
	// HelioSpherJ2000 holds heliocentric spherical coordinates at J2000 (VSOP87B files).
	HelioSpherJ2000 Version = 2
	// HelioRectDate holds heliocentric rectangular coordinates of date (VSOP87C files).
	HelioRectDate Version = 3
	// HelioSpherDate holds heliocentric spherical coordinates of date (VSOP87D files).
	HelioSpherDate Version = 4
	// BaryRectJ2000 holds barycentric rectangular coordinates at J2000 (VSOP87E files).
	BaryRectJ2000 Version = 5
)

var versionNames = map[Version]string{
	EllipticJ2000:   "elliptic_j2000",
	HelioRectJ2000:  "helio_rect_j2000",
	HelioSpherJ2000: "helio_spher_j2000",
	HelioRectDate:   "helio_rect_date",
	HelioSpherDate:  "helio_spher_date",
	BaryRectJ2000:   "bary_rect_j2000",
}

// versionLetters maps the file-suffix letter used by the published VSOP87 files.
var versionLetters = map[string]Version{
	"":  EllipticJ2000,
	"A": HelioRectJ2000,
	"B": HelioSpherJ2000,
	"C": HelioRectDate,
	"D": HelioSpherDate,
	"E": BaryRectJ2000,
}

// Valid reports whether v is one of the known VSOP87 versions.
func (v Version) Valid() bool {
	_, ok := versionNames[v]
	return ok
}

func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "invalid"
}

// ExpectedCoords returns the number of coordinates a model of this version must carry.
func (v Version) ExpectedCoords() int {
	if v == EllipticJ2000 {
		return 6
	}
	return 3
}

// Spherical reports whether the coordinates are longitude, latitude and radius.
func (v Version) Spherical() bool {
	return v == HelioSpherJ2000 || v == HelioSpherDate
}

// Rectangular reports whether the coordinates are heliocentric x, y and z.
func (v Version) Rectangular() bool {
	return v == HelioRectJ2000 || v == HelioRectDate
}

// ParseVersion accepts either a version name ("helio_spher_j2000"), a file
// letter ("B") or "elliptic" for the unlettered VSOP87 series.
func ParseVersion(s string) (Version, error) {
	key := strings.TrimSpace(s)
	if v, ok := versionLetters[strings.ToUpper(key)]; ok && key != "" {
		return v, nil
	}
	lower := strings.ToLower(key)
	if lower == "elliptic" {
		return EllipticJ2000, nil
	}
	for v, name := range versionNames {
		if name == lower {
			return v, nil
		}
	}
	return InvalidVersion, fmt.Errorf("unknown VSOP87 version: %q", s)
}

// Body identifies the body a model describes. The numeric values follow the
// NOVAS body codes and are persisted by the compact format.
type Body int

const (
	// InvalidBody marks a null model or an unrecognized body name.
	InvalidBody Body = -1

	Mercury Body = 0
	Venus   Body = 1
	EMB     Body = 2 // Earth/Moon barycenter
	Mars    Body = 3
	Jupiter Body = 4
	Saturn  Body = 5
	Uranus  Body = 6
	Neptune Body = 7

	// 8 and 9 are Pluto and GM in NOVAS; VSOP87 has no models for them.

	Sun   Body = 10
	Earth Body = 11
)

// bodyNames is matched case-sensitively against the 8-column name field of a header record.
var bodyNames = []struct {
	name string
	body Body
}{
	{"MERCURY ", Mercury},
	{"VENUS   ", Venus},
	{"EARTH   ", Earth},
	{"EMB     ", EMB},
	{"MARS    ", Mars},
	{"JUPITER ", Jupiter},
	{"SATURN  ", Saturn},
	{"URANUS  ", Uranus},
	{"NEPTUNE ", Neptune},
	{"SUN     ", Sun},
}

// LookupBodyName returns the body whose 8-character padded VSOP87 name equals field.
func LookupBodyName(field string) Body {
	for _, b := range bodyNames {
		if b.name == field {
			return b.body
		}
	}
	return InvalidBody
}

// Valid reports whether b is one of the bodies VSOP87 files describe.
func (b Body) Valid() bool {
	for _, entry := range bodyNames {
		if entry.body == b {
			return true
		}
	}
	return false
}

func (b Body) String() string {
	for _, entry := range bodyNames {
		if entry.body == b {
			return strings.ToLower(strings.TrimSpace(entry.name))
		}
	}
	return "invalid"
}

// ParseBody resolves a body name case-insensitively ("mars", "EMB").
func ParseBody(s string) (Body, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, entry := range bodyNames {
		if strings.TrimSpace(entry.name) == want {
			return entry.body, nil
		}
	}
	return InvalidBody, fmt.Errorf("unknown body: %q", s)
}

// meanDistanceAU is the typical heliocentric distance of each body, used to
// weigh distance errors during truncation. The further from the Sun, the more
// error can be tolerated.
var meanDistanceAU = map[Body]float64{
	Mercury: 0.387098,
	Venus:   0.723332,
	Earth:   1.000000,
	EMB:     1.000000,
	Mars:    1.523679,
	Jupiter: 5.2044,
	Saturn:  9.5826,
	Uranus:  19.2184,
	Neptune: 30.11,
}

// MarshalText encodes v by name.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts anything ParseVersion does.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalText encodes b by lowercase name.
func (b Body) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts anything ParseBody does.
func (b *Body) UnmarshalText(text []byte) error {
	parsed, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
