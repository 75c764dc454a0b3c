// Package similarity builds forward and reverse mass-spectrum similarity matrices
// between named spectra.
package similarity

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Cell.
type Kind uint8

const (
	// Missing: one or both spectra unavailable or empty.
	Missing Kind = iota
	// SelfSuppressed: diagonal entry of a within-sample matrix.
	SelfSuppressed
	// Score: a real similarity value in [0, 1000].
	Score
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case SelfSuppressed:
		return "self"
	case Score:
		return "score"
	default:
		return "unknown"
	}
}

// Cell is one entry of a similarity matrix. The zero value is Missing.
type Cell struct {
	kind  Kind
	value float64
}

// MissingCell returns a Missing cell.
func MissingCell() Cell { return Cell{kind: Missing} }

// SelfSuppressedCell returns a SelfSuppressed cell.
func SelfSuppressedCell() Cell { return Cell{kind: SelfSuppressed} }

// ScoreCell returns a cell holding a real score.
func ScoreCell(v float64) Cell { return Cell{kind: Score, value: v} }

// Kind returns the variant tag.
func (c Cell) Kind() Kind { return c.kind }

// Value returns the score and true only for Score cells.
func (c Cell) Value() (float64, bool) {
	if c.kind != Score {
		return 0, false
	}
	return c.value, true
}

func (c Cell) String() string {
	if c.kind == Score {
		return strconv.FormatFloat(c.value, 'f', 1, 64)
	}
	return c.kind.String()
}

// MarshalJSON writes scores as numbers and sentinels as their tag name.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == Score {
		return strconv.AppendFloat(nil, c.value, 'f', -1, 64), nil
	}
	return []byte(strconv.Quote(c.kind.String())), nil
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (c *Cell) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case `"missing"`, "null":
		*c = MissingCell()
		return nil
	case `"self"`:
		*c = SelfSuppressedCell()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid similarity cell %s: %w", s, err)
	}
	*c = ScoreCell(v)
	return nil
}
