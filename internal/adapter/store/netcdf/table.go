// Package netcdf stores sampled ephemeris tables, evaluated from a VSOP87
// model, in NetCDF files.
package netcdf

import (
	"errors"
	"fmt"
	"math"

	ncdf "github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/vsop87/internal/adapter/interp"
	"go.ngs.io/vsop87/internal/domain"
)

// Variable, dimension and attribute names in table files.
const (
	timeDimName  = "time"
	xyzDimName   = "xyz"
	ttVarName    = "tt"
	posVarName   = "position"
	velVarName   = "velocity"
	bodyAttr     = "body"
	versionAttr  = "version"
	unitsAttr    = "units"
	ttUnits      = "days since J2000.0"
	posUnits     = "au"
	velUnits     = "au/day"
	maxTableSize = 10_000_000
)

// Table is a time series of equatorial J2000 positions, and velocities when
// the model supports them.
type Table struct {
	Body     domain.Body
	Version  domain.Version
	TT       []float64     // Days from J2000, strictly increasing.
	Position []domain.Vec3 // AU.
	Velocity []domain.Vec3 // AU/day; nil when not available.
}

// HasVelocity reports whether the table carries velocities.
func (t *Table) HasVelocity() bool {
	return t.Velocity != nil
}

// BuildTable evaluates m every stepDays from startTT up to and including endTT.
// Velocities are included for heliocentric spherical J2000 models.
func BuildTable(m *domain.Model, startTT, endTT, stepDays float64) (*Table, error) {
	if stepDays <= 0 || math.IsNaN(stepDays) {
		return nil, fmt.Errorf("step must be positive, got %v", stepDays)
	}
	if !(endTT > startTT) {
		return nil, fmt.Errorf("end (%v) must be after start (%v)", endTT, startTT)
	}
	n := int(math.Floor((endTT-startTT)/stepDays+1e-9)) + 1
	if n > maxTableSize {
		return nil, fmt.Errorf("table would have %d samples (max %d)", n, maxTableSize)
	}

	withVelocity := m.Version == domain.HelioSpherJ2000 && m.NCoords == 3

	table := &Table{
		Body:     m.Body,
		Version:  m.Version,
		TT:       make([]float64, n),
		Position: make([]domain.Vec3, n),
	}
	if withVelocity {
		table.Velocity = make([]domain.Vec3, n)
	}

	for i := 0; i < n; i++ {
		tt := startTT + float64(i)*stepDays
		table.TT[i] = tt
		if withVelocity {
			pos, vel, err := domain.CalcPositionVelocity(m, tt)
			if err != nil {
				return nil, err
			}
			table.Position[i] = pos
			table.Velocity[i] = vel
			continue
		}
		pos, err := domain.CalcPosition(m, tt)
		if err != nil {
			return nil, err
		}
		table.Position[i] = pos
	}
	return table, nil
}

func flatten(vs []domain.Vec3) []float64 {
	flat := make([]float64, 0, 3*len(vs))
	for _, v := range vs {
		flat = append(flat, v.X, v.Y, v.Z)
	}
	return flat
}

func unflatten(flat []float64) []domain.Vec3 {
	vs := make([]domain.Vec3, len(flat)/3)
	for i := range vs {
		vs[i] = domain.Vec3{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
	}
	return vs
}

// WriteTable writes t to a new NetCDF file at path, replacing any existing file.
func WriteTable(path string, t *Table) (err error) {
	n := len(t.TT)
	if n == 0 || len(t.Position) != n || (t.Velocity != nil && len(t.Velocity) != n) {
		return fmt.Errorf("inconsistent table: %d times, %d positions, %d velocities", n, len(t.Position), len(t.Velocity))
	}

	nc, err := ncdf.CreateFile(path, ncdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() {
		if cerr := nc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close NetCDF file: %w", cerr)
		}
	}()

	timeDim, err := nc.AddDim(timeDimName, uint64(n))
	if err != nil {
		return fmt.Errorf("failed to add time dimension: %w", err)
	}
	xyzDim, err := nc.AddDim(xyzDimName, 3)
	if err != nil {
		return fmt.Errorf("failed to add xyz dimension: %w", err)
	}

	ttVar, err := nc.AddVar(ttVarName, ncdf.DOUBLE, []ncdf.Dim{timeDim})
	if err != nil {
		return fmt.Errorf("failed to add %s variable: %w", ttVarName, err)
	}
	posVar, err := nc.AddVar(posVarName, ncdf.DOUBLE, []ncdf.Dim{timeDim, xyzDim})
	if err != nil {
		return fmt.Errorf("failed to add %s variable: %w", posVarName, err)
	}
	var velVar ncdf.Var
	if t.HasVelocity() {
		velVar, err = nc.AddVar(velVarName, ncdf.DOUBLE, []ncdf.Dim{timeDim, xyzDim})
		if err != nil {
			return fmt.Errorf("failed to add %s variable: %w", velVarName, err)
		}
	}

	if err := ttVar.Attr(unitsAttr).WriteBytes([]byte(ttUnits)); err != nil {
		return fmt.Errorf("failed to write %s units: %w", ttVarName, err)
	}
	if err := posVar.Attr(unitsAttr).WriteBytes([]byte(posUnits)); err != nil {
		return fmt.Errorf("failed to write %s units: %w", posVarName, err)
	}
	if err := posVar.Attr(bodyAttr).WriteInt32s([]int32{int32(t.Body)}); err != nil {
		return fmt.Errorf("failed to write %s attribute: %w", bodyAttr, err)
	}
	if err := posVar.Attr(versionAttr).WriteInt32s([]int32{int32(t.Version)}); err != nil {
		return fmt.Errorf("failed to write %s attribute: %w", versionAttr, err)
	}
	if t.HasVelocity() {
		if err := velVar.Attr(unitsAttr).WriteBytes([]byte(velUnits)); err != nil {
			return fmt.Errorf("failed to write %s units: %w", velVarName, err)
		}
	}

	if err := nc.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	if err := ttVar.WriteFloat64s(t.TT); err != nil {
		return fmt.Errorf("failed to write %s: %w", ttVarName, err)
	}
	if err := posVar.WriteFloat64s(flatten(t.Position)); err != nil {
		return fmt.Errorf("failed to write %s: %w", posVarName, err)
	}
	if t.HasVelocity() {
		if err := velVar.WriteFloat64s(flatten(t.Velocity)); err != nil {
			return fmt.Errorf("failed to write %s: %w", velVarName, err)
		}
	}
	return nil
}

// ReadTable reads a table written by WriteTable.
func ReadTable(path string) (*Table, error) {
	nc, err := ncdf.OpenFile(path, ncdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	ttVar, err := nc.Var(ttVarName)
	if err != nil {
		return nil, fmt.Errorf("%s variable not found: %w", ttVarName, err)
	}
	tt, err := readDoubles(ttVar, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ttVarName, err)
	}

	posVar, err := nc.Var(posVarName)
	if err != nil {
		return nil, fmt.Errorf("%s variable not found: %w", posVarName, err)
	}
	pos, err := readDoubles(posVar, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", posVarName, err)
	}
	if len(pos) != 3*len(tt) {
		return nil, fmt.Errorf("%s has %d values, expected %d", posVarName, len(pos), 3*len(tt))
	}

	body, err := readIntAttr(posVar, bodyAttr)
	if err != nil {
		return nil, err
	}
	version, err := readIntAttr(posVar, versionAttr)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Body:     domain.Body(body),
		Version:  domain.Version(version),
		TT:       tt,
		Position: unflatten(pos),
	}

	velVar, err := nc.Var(velVarName)
	if err == nil {
		vel, err := readDoubles(velVar, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", velVarName, err)
		}
		if len(vel) != 3*len(tt) {
			return nil, fmt.Errorf("%s has %d values, expected %d", velVarName, len(vel), 3*len(tt))
		}
		table.Velocity = unflatten(vel)
	}

	return table, nil
}

// readDoubles reads a whole DOUBLE variable of the given rank.
func readDoubles(v ncdf.Var, rank int) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != rank {
		return nil, fmt.Errorf("expected %dD variable, got %dD", rank, len(dims))
	}
	if t, err := v.Type(); err != nil || t != ncdf.DOUBLE {
		return nil, fmt.Errorf("expected DOUBLE variable")
	}

	total := uint64(1)
	for _, d := range dims {
		length, err := d.Len()
		if err != nil {
			return nil, err
		}
		total *= length
	}

	data := make([]float64, total)
	if err := v.ReadFloat64s(data); err != nil {
		return nil, err
	}
	return data, nil
}

func readIntAttr(v ncdf.Var, name string) (int, error) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n != 1 {
		return 0, fmt.Errorf("%s attribute not found", name)
	}
	buf := make([]int32, 1)
	if err := a.ReadInt32s(buf); err != nil {
		return 0, fmt.Errorf("failed to read %s attribute: %w", name, err)
	}
	return int(buf[0]), nil
}

// ErrOutOfRange is returned when a time lies outside a table.
var ErrOutOfRange = errors.New("time outside table range")

// Interpolator evaluates a table between its samples, one interp.Samples
// per axis. Build it once with Table.Interpolator and reuse it.
type Interpolator struct {
	axes [3]interp.Samples
}

// Interpolator prepares t for repeated interpolation. Cubic Hermite
// interpolation is used when velocities are available, linear otherwise.
func (t *Table) Interpolator() (*Interpolator, error) {
	n := len(t.TT)
	if n < 2 {
		return nil, fmt.Errorf("table needs at least 2 samples, has %d", n)
	}
	if len(t.Position) != n || (t.HasVelocity() && len(t.Velocity) != n) {
		return nil, fmt.Errorf("inconsistent table: %d times, %d positions, %d velocities", n, len(t.Position), len(t.Velocity))
	}

	ip := &Interpolator{}
	for a := range ip.axes {
		s := interp.Samples{X: t.TT, Values: make([]float64, n)}
		if t.HasVelocity() {
			s.Slopes = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			s.Values[i] = axis(t.Position[i], a)
			if s.Slopes != nil {
				s.Slopes[i] = axis(t.Velocity[i], a)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid table: %w", err)
		}
		ip.axes[a] = s
	}
	return ip, nil
}

func axis(v domain.Vec3, a int) float64 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// PositionAt interpolates the position at tt.
func (ip *Interpolator) PositionAt(tt float64) (domain.Vec3, error) {
	x := ip.axes[0].X
	n := len(x)
	if math.IsNaN(tt) || tt < x[0] || tt > x[n-1] {
		return domain.Vec3{}, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, tt, x[0], x[n-1])
	}

	var c [3]float64
	for a := range ip.axes {
		v, err := ip.axes[a].InterpolateAt(tt)
		if err != nil {
			return domain.Vec3{}, err
		}
		c[a] = v
	}
	return domain.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// PositionAt interpolates the position at tt. Use Interpolator when
// evaluating many times.
func (t *Table) PositionAt(tt float64) (domain.Vec3, error) {
	ip, err := t.Interpolator()
	if err != nil {
		return domain.Vec3{}, err
	}
	return ip.PositionAt(tt)
}
