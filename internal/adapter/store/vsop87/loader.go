// Package vsop87 reads the fixed-column text files published with the
// VSOP87 planetary theory (VSOP87A.ear, VSOP87B.mar, ...).
package vsop87

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/vsop87/internal/domain"
)

// Column layout of the published files. Offsets are 0-based.
const (
	HeaderMarker = " VSOP87 VERSION "

	versionCol   = 17
	bodyCol      = 22
	bodyWidth    = 8
	powerCol     = 59
	ntermsCol    = 60
	minHeaderLen = 67

	dataCol    = 79
	minDataLen = 131
)

// header is one parsed block header record.
type header struct {
	version domain.Version
	body    string
	power   int
	nterms  int
}

// parseHeader validates a header record. It reports false for anything that
// is not a well-formed header with at least one term.
func parseHeader(line string) (header, bool) {
	if len(line) < minHeaderLen || !strings.HasPrefix(line, HeaderMarker) {
		return header{}, false
	}
	if line[versionCol] < '0' || line[versionCol] > '5' {
		return header{}, false
	}
	if line[powerCol] < '0' || line[powerCol] > '9' {
		return header{}, false
	}
	nterms, ok := leadingInt(line[ntermsCol:])
	if !ok || nterms < 1 {
		return header{}, false
	}
	return header{
		version: domain.Version(line[versionCol] - '0'),
		body:    line[bodyCol : bodyCol+bodyWidth],
		power:   int(line[powerCol] - '0'),
		nterms:  nterms,
	}, true
}

// leadingInt parses the optionally signed decimal integer at the start of s,
// after skipping blanks. Trailing text is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseData extracts amplitude, phase and frequency from a data record.
func parseData(line string) (domain.Term, bool) {
	if len(line) < minDataLen {
		return domain.Term{}, false
	}
	fields := strings.Fields(line[dataCol:])
	if len(fields) < 3 {
		return domain.Term{}, false
	}
	var values [3]float64
	for i := range values {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return domain.Term{}, false
		}
		values[i] = v
	}
	return domain.Term{Amplitude: values[0], Phase: values[1], Frequency: values[2]}, true
}

// Identify returns the version and body named by a VSOP87 header record.
// It reports false if line is not a valid header or names an unknown body.
func Identify(line string) (domain.Version, domain.Body, bool) {
	h, ok := parseHeader(strings.TrimRight(line, "\r\n"))
	if !ok {
		return domain.InvalidVersion, domain.InvalidBody, false
	}
	body := domain.LookupBodyName(h.body)
	return h.version, body, body != domain.InvalidBody
}

// LoadModel reads a VSOP87 file from disk.
func LoadModel(path string) (*domain.Model, error) {
	//nolint:gosec // G304: path is chosen by the caller.
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.IOErrorf(path, fmt.Errorf("failed to open VSOP87 file: %w", err))
	}
	defer func() { _ = file.Close() }()

	m := domain.NewModel()
	if err := ReadModel(m, file, path); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadModel parses a VSOP87 file from r into m. name is used in error
// messages. On failure m is released to the null state.
func ReadModel(m *domain.Model, r io.Reader, name string) (err error) {
	m.Release()
	defer func() {
		if err != nil {
			m.Release()
		}
	}()

	var (
		formula   *domain.Formula
		series    *domain.Series
		lnum      int
		nterms    int
		termcount int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lnum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if termcount < nterms {
			term, ok := parseData(line)
			if !ok {
				return domain.FormatErrorf(name, lnum, "bad data record")
			}
			series.Terms[termcount] = term
			termcount++
			continue
		}

		h, ok := parseHeader(line)
		if !ok {
			return domain.FormatErrorf(name, lnum, "bad header record")
		}

		if lnum == 1 {
			m.Version = h.version
			m.Body = domain.LookupBodyName(h.body)
			if m.Body == domain.InvalidBody {
				return domain.NewError(domain.ErrInvalidBody, name, lnum, "name %q", h.body)
			}
		}

		if h.power == 0 {
			f, ok := m.AddFormula()
			if !ok {
				return domain.NewError(domain.ErrCapacity, name, lnum, "more than %d coordinates", domain.MaxCoords)
			}
			formula = f
		}
		if formula == nil {
			return domain.FormatErrorf(name, lnum, "unexpected power %d before any coordinate", h.power)
		}
		if formula.NSeriesTotal == domain.MaxSeries {
			return domain.NewError(domain.ErrCapacity, name, lnum, "more than %d series", domain.MaxSeries)
		}
		if formula.NSeriesTotal != h.power {
			return domain.FormatErrorf(name, lnum, "power=%d but formula has %d series", h.power, formula.NSeriesTotal)
		}

		if series, ok = formula.AddSeries(h.nterms); !ok {
			return domain.NewError(domain.ErrCapacity, name, lnum, "%d terms (max %d)", h.nterms, domain.MaxTerms)
		}
		nterms = h.nterms
		termcount = 0
	}
	if err := scanner.Err(); err != nil {
		return domain.IOErrorf(name, fmt.Errorf("failed to read VSOP87 file: %w", err))
	}

	if termcount != nterms {
		return domain.NewError(domain.ErrEarlyEOF, name, lnum, "%d of %d terms read", termcount, nterms)
	}
	if m.Version == domain.InvalidVersion {
		return domain.FormatErrorf(name, 0, "no header record")
	}
	if want := m.Version.ExpectedCoords(); m.NCoords != want {
		return domain.NewError(domain.ErrConsistency, name, 0, "expected %d coordinates but found %d", want, m.NCoords)
	}
	return nil
}
