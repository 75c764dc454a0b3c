package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds surfaced to the caller of a comparison. None of them are retried.
var (
	// ErrAlignmentMismatch means the aligned peak lists of a comparison differ in length.
	ErrAlignmentMismatch = errors.New("aligned peak lists differ in length")
	// ErrInvalidProfile means the reference profile has no peaks, so confidence is undefined.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrSimilarityInvariant means a self-comparison did not score a perfect match.
	ErrSimilarityInvariant = errors.New("self-comparison outside tolerance")
	// ErrRowBounds means a confidence row contribution left [0, MaxPointsPerPeak].
	ErrRowBounds = errors.New("row contribution out of bounds")
)

// AlignmentMismatchError lists the peak-list length of every sample.
type AlignmentMismatchError struct {
	Lengths map[string]int
}

func (e *AlignmentMismatchError) Error() string {
	ids := make([]string, 0, len(e.Lengths))
	for id := range e.Lengths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%d", id, e.Lengths[id]))
	}
	return fmt.Sprintf("%v: %s", ErrAlignmentMismatch, strings.Join(parts, ", "))
}

func (e *AlignmentMismatchError) Unwrap() error {
	return ErrAlignmentMismatch
}

// CheckAligned returns an *AlignmentMismatchError unless every length is equal.
func CheckAligned(lengths map[string]int) error {
	first := -1
	for _, n := range lengths {
		if first == -1 {
			first = n
			continue
		}
		if n != first {
			return &AlignmentMismatchError{Lengths: lengths}
		}
	}
	return nil
}

// InvariantError reports a self-comparison that was not ≈ PerfectMatchFactor.
type InvariantError struct {
	Sample  string
	Forward float64
	Reverse float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: sample %q scored forward=%.4f reverse=%.4f against itself",
		ErrSimilarityInvariant, e.Sample, e.Forward, e.Reverse)
}

func (e *InvariantError) Unwrap() error {
	return ErrSimilarityInvariant
}

// RowBoundsError reports a confidence row contribution outside [0, MaxPointsPerPeak].
type RowBoundsError struct {
	Row          int
	Contribution float64
}

func (e *RowBoundsError) Error() string {
	return fmt.Sprintf("%v: row %d contributed %.4f", ErrRowBounds, e.Row, e.Contribution)
}

func (e *RowBoundsError) Unwrap() error {
	return ErrRowBounds
}
