package vsop87

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.ngs.io/vsop87/internal/domain"
)

// headerLine builds a header record the way the published files lay it out.
func headerLine(version int, body string, power, nterms int) string {
	buf := []byte(strings.Repeat(" ", 132))
	copy(buf, HeaderMarker)
	buf[versionCol] = byte('0' + version)
	copy(buf[bodyCol:], fmt.Sprintf("%-8s", body))
	copy(buf[32:], "VARIABLE 1 (LBR)")
	copy(buf[powerCol-4:], "*T**")
	buf[powerCol] = byte('0' + power)
	copy(buf[ntermsCol:], fmt.Sprintf("%7d TERMS", nterms))
	return string(buf)
}

// dataLine builds a 131-column data record.
func dataLine(a, b, c float64) string {
	buf := []byte(strings.Repeat(" ", minDataLen))
	copy(buf[1:], "2110    1")
	copy(buf[dataCol:], fmt.Sprintf("%18.11f%14.11f%20.11f", a, b, c))
	return string(buf)
}

// buildFile renders coords (coordinate → series by power → terms) as a VSOP87 file.
func buildFile(version int, body string, coords [][][][3]float64) string {
	var sb strings.Builder
	for _, series := range coords {
		for power, terms := range series {
			sb.WriteString(headerLine(version, body, power, len(terms)))
			sb.WriteByte('\n')
			for _, term := range terms {
				sb.WriteString(dataLine(term[0], term[1], term[2]))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func marsSpherical() [][][][3]float64 {
	return [][][][3]float64{
		{
			{{6.2, 0, 0}, {0.5, 3.25, 3340.5}},
			{{3340.5, 0, 0}},
		},
		{
			{{0.25, 1.5, 3340.5}},
		},
		{
			{{1.5, 0, 0}, {0.125, 3.0, 3340.5}},
		},
	}
}

func TestDataLineLayout(t *testing.T) {
	if got := len(dataLine(0.5, 3.14159265359, 12345.6789)); got != minDataLen {
		t.Fatalf("data line length = %d, want %d", got, minDataLen)
	}
	h := headerLine(2, "MARS", 1, 734)
	version, body, ok := Identify(h)
	if !ok || version != domain.HelioSpherJ2000 || body != domain.Mars {
		t.Fatalf("Identify(%q) = %v, %v, %v", h, version, body, ok)
	}
	if _, _, ok := Identify(headerLine(2, "PLUTO", 0, 1)); ok {
		t.Error("unknown body identified")
	}
}

func TestReadModel_Spherical(t *testing.T) {
	m := domain.NewModel()
	input := buildFile(2, "MARS", marsSpherical())

	if err := ReadModel(m, strings.NewReader(input), "VSOP87B.mar"); err != nil {
		t.Fatalf("ReadModel: %v", err)
	}

	if m.Version != domain.HelioSpherJ2000 {
		t.Errorf("version = %v, want %v", m.Version, domain.HelioSpherJ2000)
	}
	if m.Body != domain.Mars {
		t.Errorf("body = %v, want mars", m.Body)
	}
	if m.NCoords != 3 {
		t.Fatalf("ncoords = %d, want 3", m.NCoords)
	}

	lon := &m.Formulas[0]
	if lon.NSeriesTotal != 2 || lon.NSeriesCalc != 2 {
		t.Errorf("longitude series = %d/%d, want 2/2", lon.NSeriesCalc, lon.NSeriesTotal)
	}
	if got := lon.Series[0].Terms[1]; got != (domain.Term{Amplitude: 0.5, Phase: 3.25, Frequency: 3340.5}) {
		t.Errorf("term = %+v", got)
	}
	if lon.Series[0].Calc != 2 || lon.Series[1].Calc != 1 {
		t.Errorf("calc counts = %d, %d; want 2, 1", lon.Series[0].Calc, lon.Series[1].Calc)
	}
	if got := m.TermCount(); got != 6 {
		t.Errorf("TermCount = %d, want 6", got)
	}
}

func TestReadModel_CRLF(t *testing.T) {
	input := strings.ReplaceAll(buildFile(1, "EARTH", [][][][3]float64{
		{{{1, 0, 0}}}, {{{0.5, 0, 0}}}, {{{0.25, 0, 0}}},
	}), "\n", "\r\n")

	m := domain.NewModel()
	if err := ReadModel(m, strings.NewReader(input), "VSOP87A.ear"); err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if m.Body != domain.Earth || m.Version != domain.HelioRectJ2000 {
		t.Errorf("got body=%v version=%v", m.Body, m.Version)
	}
}

func TestReadModel_BodyAndVersionFromFirstHeader(t *testing.T) {
	lines := []string{
		headerLine(2, "VENUS", 0, 1), dataLine(1, 0, 0),
		headerLine(3, "PLUTO", 0, 1), dataLine(1, 0, 0),
		headerLine(3, "PLUTO", 0, 1), dataLine(1, 0, 0),
	}
	m := domain.NewModel()
	if err := ReadModel(m, strings.NewReader(strings.Join(lines, "\n")), "mixed"); err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if m.Body != domain.Venus || m.Version != domain.HelioSpherJ2000 {
		t.Errorf("got body=%v version=%v, want venus helio_spher_j2000", m.Body, m.Version)
	}
}

func TestReadModel_Failures(t *testing.T) {
	valid := buildFile(2, "MARS", marsSpherical())
	validLines := strings.Split(strings.TrimSuffix(valid, "\n"), "\n")

	sevenCoords := make([][][][3]float64, 7)
	for i := range sevenCoords {
		sevenCoords[i] = [][][3]float64{{{1, 0, 0}}}
	}

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "zero terms",
			input: headerLine(2, "MARS", 0, 0) + "\n",
			want:  domain.ErrFormat,
		},
		{
			name:  "unknown body",
			input: buildFile(2, "PLUTO", marsSpherical()),
			want:  domain.ErrInvalidBody,
		},
		{
			name:  "lowercase body",
			input: buildFile(2, "mars", marsSpherical()),
			want:  domain.ErrInvalidBody,
		},
		{
			name:  "version digit out of range",
			input: buildFile(6, "MARS", marsSpherical()),
			want:  domain.ErrFormat,
		},
		{
			name:  "missing marker",
			input: strings.Replace(valid, HeaderMarker, " VSOP82 VERSION ", 1),
			want:  domain.ErrFormat,
		},
		{
			name:  "first series not power zero",
			input: headerLine(2, "MARS", 1, 1) + "\n" + dataLine(1, 0, 0) + "\n",
			want:  domain.ErrFormat,
		},
		{
			name: "power gap",
			input: strings.Join([]string{
				headerLine(2, "MARS", 0, 1), dataLine(1, 0, 0),
				headerLine(2, "MARS", 2, 1), dataLine(1, 0, 0),
			}, "\n"),
			want: domain.ErrFormat,
		},
		{
			name:  "early end of input",
			input: strings.Join(validLines[:len(validLines)-1], "\n"),
			want:  domain.ErrEarlyEOF,
		},
		{
			name:  "missing coordinate",
			input: buildFile(2, "MARS", marsSpherical()[:2]),
			want:  domain.ErrConsistency,
		},
		{
			name:  "elliptic needs six coordinates",
			input: buildFile(0, "MARS", marsSpherical()),
			want:  domain.ErrConsistency,
		},
		{
			name:  "too many coordinates",
			input: buildFile(2, "MARS", sevenCoords),
			want:  domain.ErrCapacity,
		},
		{
			name:  "absurd term count",
			input: headerLine(2, "MARS", 0, 999999999999999999) + "\n" + dataLine(1, 0, 0) + "\n",
			want:  domain.ErrCapacity,
		},
		{
			name:  "term count above limit",
			input: headerLine(2, "MARS", 0, domain.MaxTerms+1) + "\n",
			want:  domain.ErrCapacity,
		},
		{
			name:  "two-digit power",
			input: strings.Replace(valid, "*T**1", "*T**:", 1),
			want:  domain.ErrFormat,
		},
		{
			name:  "short data record",
			input: headerLine(2, "MARS", 0, 1) + "\n" + dataLine(1, 0, 0)[:120] + "\n",
			want:  domain.ErrFormat,
		},
		{
			name:  "garbage data record",
			input: headerLine(2, "MARS", 0, 1) + "\n" + strings.Repeat("x", minDataLen) + "\n",
			want:  domain.ErrFormat,
		},
		{
			name:  "empty input",
			input: "",
			want:  domain.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.NewModel()
			err := ReadModel(m, strings.NewReader(tt.input), "test.dat")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !m.IsNull() {
				t.Errorf("model not released after failure: %+v", m)
			}
		})
	}
}

func TestReadModel_ErrorLocation(t *testing.T) {
	input := headerLine(2, "MARS", 0, 2) + "\n" + dataLine(1, 0, 0) + "\nnot a record\n"

	err := ReadModel(domain.NewModel(), strings.NewReader(input), "VSOP87B.mar")
	var verr *domain.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if verr.File != "VSOP87B.mar" || verr.Line != 3 {
		t.Errorf("location = %s:%d, want VSOP87B.mar:3", verr.File, verr.Line)
	}
}

func TestReadModel_ReusesModel(t *testing.T) {
	m := domain.NewModel()
	if err := ReadModel(m, strings.NewReader(buildFile(2, "MARS", marsSpherical())), "a"); err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if err := ReadModel(m, strings.NewReader(buildFile(1, "SATURN", [][][][3]float64{
		{{{1, 0, 0}}}, {{{1, 0, 0}}}, {{{1, 0, 0}}},
	})), "b"); err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if m.Body != domain.Saturn || m.NCoords != 3 || m.Formulas[0].NSeriesTotal != 1 {
		t.Errorf("second load did not replace the first: %+v", m.Formulas[0])
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VSOP87B.mar")
	if err := os.WriteFile(path, []byte(buildFile(2, "MARS", marsSpherical())), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if _, _, err := domain.CalcPositionVelocity(m, 0); err != nil {
		t.Errorf("CalcPositionVelocity: %v", err)
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, domain.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected cause fs.ErrNotExist, got %v", err)
	}
}

func TestLoadModel_RectangularRejectsVelocity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VSOP87A.jup")
	input := buildFile(1, "JUPITER", [][][][3]float64{
		{{{5.2, 0, 0}}}, {{{0.5, 0, 0}}}, {{{0.125, 0, 0}}},
	})
	if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if _, _, err := domain.CalcPositionVelocity(m, 0); !errors.Is(err, domain.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
	if _, err := domain.CalcPosition(m, 0); err != nil {
		t.Errorf("CalcPosition: %v", err)
	}
}
