// Package trunc reads and writes the compact text format used for truncated
// VSOP87 models. Only active terms are written, so a model read back has
// every calc count equal to its total.
package trunc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/vsop87/internal/domain"
)

// Magic starts the first line of every compact file.
const Magic = "TRUNC_VSOP87"

const (
	headerFormat = Magic + " version=%d body=%d ncoords=%d"
	coordFormat  = "    coord=%d, nseries=%d"
	seriesFormat = "        series=%d, nterms=%d"
	termFormat   = "        %7d %18.11f %14.11f %20.11f"
)

// Write serializes the active part of m.
func Write(w io.Writer, m *domain.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, headerFormat+"\n", int(m.Version), int(m.Body), m.NCoords)
	for k := 0; k < m.NCoords; k++ {
		f := &m.Formulas[k]
		fmt.Fprintf(bw, coordFormat+"\n", k, f.NSeriesCalc)
		for s := 0; s < f.NSeriesCalc; s++ {
			terms := f.Series[s].Active()
			fmt.Fprintf(bw, seriesFormat+"\n", s, len(terms))
			for i, term := range terms {
				fmt.Fprintf(bw, termFormat+"\n", i, term.Amplitude, term.Phase, term.Frequency)
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *domain.Model) error {
	//nolint:gosec // G304: path is chosen by the caller.
	file, err := os.Create(path)
	if err != nil {
		return domain.IOErrorf(path, fmt.Errorf("failed to create output file: %w", err))
	}
	if err := Write(file, m); err != nil {
		_ = file.Close()
		return domain.IOErrorf(path, fmt.Errorf("failed to write model: %w", err))
	}
	if err := file.Close(); err != nil {
		return domain.IOErrorf(path, fmt.Errorf("failed to close output file: %w", err))
	}
	return nil
}

// LoadModel reads a compact file from disk.
func LoadModel(path string) (*domain.Model, error) {
	//nolint:gosec // G304: path is chosen by the caller.
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.IOErrorf(path, fmt.Errorf("failed to open compact file: %w", err))
	}
	defer func() { _ = file.Close() }()

	m := domain.NewModel()
	if err := ReadModel(m, file, path); err != nil {
		return nil, err
	}
	return m, nil
}

// Identify returns the version and body named by the first line of a compact file.
func Identify(line string) (domain.Version, domain.Body, bool) {
	var version, body, ncoords int
	if _, err := fmt.Sscanf(line, headerFormat, &version, &body, &ncoords); err != nil {
		return domain.InvalidVersion, domain.InvalidBody, false
	}
	v, b := domain.Version(version), domain.Body(body)
	return v, b, v.Valid() && b.Valid()
}

type lineReader struct {
	scanner *bufio.Scanner
	name    string
	lnum    int
}

func (lr *lineReader) next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", domain.IOErrorf(lr.name, fmt.Errorf("failed to read line %d: %w", lr.lnum+1, err))
		}
		return "", domain.NewError(domain.ErrEarlyEOF, lr.name, lr.lnum+1, "missing line")
	}
	lr.lnum++
	return strings.TrimRight(lr.scanner.Text(), "\r"), nil
}

// ReadModel parses a compact file from r into m. Every index field must match
// its position. On failure m is released to the null state.
func ReadModel(m *domain.Model, r io.Reader, name string) (err error) {
	m.Release()
	defer func() {
		if err != nil {
			m.Release()
		}
	}()

	lr := &lineReader{scanner: bufio.NewScanner(r), name: name}

	line, err := lr.next()
	if err != nil {
		return err
	}
	var version, body, ncoords int
	if _, err := fmt.Sscanf(line, headerFormat, &version, &body, &ncoords); err != nil {
		return domain.FormatErrorf(name, lr.lnum, "bad header: %v", err)
	}
	m.Version = domain.Version(version)
	m.Body = domain.Body(body)
	if !m.Version.Valid() {
		return domain.FormatErrorf(name, lr.lnum, "unknown version %d", version)
	}
	if !m.Body.Valid() {
		return domain.NewError(domain.ErrInvalidBody, name, lr.lnum, "code %d", body)
	}
	if ncoords > domain.MaxCoords {
		return domain.NewError(domain.ErrCapacity, name, lr.lnum, "%d coordinates", ncoords)
	}
	if want := m.Version.ExpectedCoords(); ncoords != want {
		return domain.NewError(domain.ErrConsistency, name, lr.lnum, "expected %d coordinates but found %d", want, ncoords)
	}

	for k := 0; k < ncoords; k++ {
		formula, _ := m.AddFormula()

		if line, err = lr.next(); err != nil {
			return err
		}
		var checkK, nseries int
		if _, err := fmt.Sscanf(line, coordFormat, &checkK, &nseries); err != nil {
			return domain.FormatErrorf(name, lr.lnum, "bad coordinate line: %v", err)
		}
		if checkK != k {
			return domain.FormatErrorf(name, lr.lnum, "coordinate index %d, expected %d", checkK, k)
		}
		if nseries < 0 {
			return domain.FormatErrorf(name, lr.lnum, "negative series count %d", nseries)
		}
		if nseries > domain.MaxSeries {
			return domain.NewError(domain.ErrCapacity, name, lr.lnum, "%d series", nseries)
		}

		for s := 0; s < nseries; s++ {
			if line, err = lr.next(); err != nil {
				return err
			}
			var checkS, nterms int
			if _, err := fmt.Sscanf(line, seriesFormat, &checkS, &nterms); err != nil {
				return domain.FormatErrorf(name, lr.lnum, "bad series line: %v", err)
			}
			if checkS != s {
				return domain.FormatErrorf(name, lr.lnum, "series index %d, expected %d", checkS, s)
			}
			if nterms < 0 {
				return domain.FormatErrorf(name, lr.lnum, "negative term count %d", nterms)
			}

			series, ok := formula.AddSeries(nterms)
			if !ok {
				return domain.NewError(domain.ErrCapacity, name, lr.lnum, "%d terms (max %d)", nterms, domain.MaxTerms)
			}
			for i := range series.Terms {
				if line, err = lr.next(); err != nil {
					return err
				}
				term, err := parseTerm(line, i)
				if err != nil {
					return domain.FormatErrorf(name, lr.lnum, "%v", err)
				}
				series.Terms[i] = term
			}
		}
	}
	return nil
}

func parseTerm(line string, index int) (domain.Term, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return domain.Term{}, fmt.Errorf("expected 4 fields in term line, got %d", len(fields))
	}
	checkI, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Term{}, fmt.Errorf("invalid term index %q", fields[0])
	}
	if checkI != index {
		return domain.Term{}, fmt.Errorf("term index %d, expected %d", checkI, index)
	}
	var values [3]float64
	for j := range values {
		v, err := strconv.ParseFloat(fields[j+1], 64)
		if err != nil {
			return domain.Term{}, fmt.Errorf("invalid coefficient %q", fields[j+1])
		}
		values[j] = v
	}
	return domain.Term{Amplitude: values[0], Phase: values[1], Frequency: values[2]}, nil
}
