// Package msp provides streaming readers for NIST-style EI MSP spectral libraries
package msp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

// Entry is one library compound with its reference spectrum.
type Entry struct {
	Name            string
	Synonyms        []string
	CASNumber       string
	Formula         string
	MolecularWeight float64
	Spectrum        core.Spectrum
}

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner      *bufio.Scanner
	lineNum      int
	currentEntry *Entry
	err          error
}

// NewReader creates a new MSP reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Next advances to the next entry. Returns false when no more entries or error.
func (r *Reader) Next() bool {
	r.currentEntry = nil

	entry, err := r.readEntry()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.currentEntry = entry
	return true
}

// Entry returns the current entry
func (r *Reader) Entry() *Entry {
	return r.currentEntry
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readEntry reads a single compound from the MSP file
func (r *Reader) readEntry() (*Entry, error) {
	var (
		entry       *Entry
		masses      []int
		intensities []float64
		numPeaks    int
		inPeaks     bool
	)

	finish := func() (*Entry, error) {
		if len(masses) != numPeaks {
			return nil, fmt.Errorf("line %d: entry %q declares %d peaks, found %d", r.lineNum, entry.Name, numPeaks, len(masses))
		}
		entry.Spectrum = core.NewSpectrum(masses, intensities)
		return entry, nil
	}

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" {
			// Blank lines separate entries
			if entry == nil {
				continue
			}
			if inPeaks {
				return finish()
			}
			continue
		}

		if inPeaks {
			if err := parsePeaks(line, &masses, &intensities); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			if len(masses) >= numPeaks {
				return finish()
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 'Key: value', got %q", r.lineNum, line)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			entry = &Entry{Name: value}
		case "synon":
			if entry != nil {
				entry.Synonyms = append(entry.Synonyms, value)
			}
		case "cas#", "casno":
			if entry != nil {
				entry.CASNumber = value
			}
		case "formula":
			if entry != nil {
				entry.Formula = value
			}
		case "mw":
			if entry != nil {
				mw, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid MW: %w", r.lineNum, err)
				}
				entry.MolecularWeight = mw
			}
		case "num peaks":
			if entry == nil {
				return nil, fmt.Errorf("line %d: peak list before Name field", r.lineNum)
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid num peaks %q", r.lineNum, value)
			}
			numPeaks = n
			masses = make([]int, 0, n)
			intensities = make([]float64, 0, n)
			inPeaks = true
			if n == 0 {
				return finish()
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if entry != nil {
		if !inPeaks {
			return nil, fmt.Errorf("line %d: entry %q has no Num Peaks field", r.lineNum, entry.Name)
		}
		return finish()
	}

	return nil, io.EOF
}

// parsePeaks appends the "mass intensity" pairs of one line. Pairs may be
// separated by semicolons or simply follow each other.
func parsePeaks(line string, masses *[]int, intensities *[]float64) error {
	fields := strings.Fields(strings.ReplaceAll(line, ";", " "))
	if len(fields)%2 != 0 {
		return fmt.Errorf("invalid peak format %q, expected mass/intensity pairs", line)
	}

	for i := 0; i < len(fields); i += 2 {
		mass, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("invalid mass value: %w", err)
		}
		intensity, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return fmt.Errorf("invalid intensity value: %w", err)
		}
		*masses = append(*masses, int(math.Round(mass)))
		*intensities = append(*intensities, intensity)
	}
	return nil
}
