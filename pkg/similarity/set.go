package similarity

import "github.com/ChrisMcGann/GCMSCompare/pkg/core"

// Set is an ordered mapping of sample name to spectrum. A sample may be present
// with no spectrum at all (absent), which is distinct from an empty spectrum only
// for bookkeeping; both score as Missing.
type Set struct {
	names   []string
	spectra map[string]*core.Spectrum
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{spectra: make(map[string]*core.Spectrum)}
}

// Add appends a sample with its spectrum. Re-adding a name replaces its spectrum.
func (s *Set) Add(name string, spec core.Spectrum) *Set {
	s.put(name, &spec)
	return s
}

// AddAbsent appends a sample that has no spectrum.
func (s *Set) AddAbsent(name string) *Set {
	s.put(name, nil)
	return s
}

func (s *Set) put(name string, spec *core.Spectrum) {
	if _, ok := s.spectra[name]; !ok {
		s.names = append(s.names, name)
	}
	s.spectra[name] = spec
}

// Names returns the sample names in insertion order.
func (s *Set) Names() []string { return s.names }

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.names) }

// Get returns the spectrum for a sample; ok is false when the sample is absent
// or its spectrum is empty.
func (s *Set) Get(name string) (core.Spectrum, bool) {
	spec := s.spectra[name]
	if spec == nil || spec.Empty() {
		return core.Spectrum{}, false
	}
	return *spec, true
}

// ExperimentalSet collects the combined experimental spectra of a row, in sample order.
func ExperimentalSet(row core.AlignedRow) *Set {
	set := NewSet()
	for _, id := range row.Samples {
		set.Add(id, row.Spectra[id])
	}
	return set
}

// ReferenceSet collects the library reference spectra of a row's peaks; samples
// without a peak are absent.
func ReferenceSet(row core.AlignedRow) *Set {
	set := NewSet()
	for _, id := range row.Samples {
		peak := row.Peaks[id]
		if peak == nil {
			set.AddAbsent(id)
			continue
		}
		set.Add(id, peak.Reference)
	}
	return set
}
