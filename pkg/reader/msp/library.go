package msp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
)

// Library is an in-memory MSP library indexed by compound name.
type Library struct {
	entries map[string]*Entry
}

// LoadLibrary reads every entry from r. Names and synonyms are matched case-insensitively;
// the first entry seen for a key wins.
func LoadLibrary(r io.Reader) (*Library, error) {
	lib := &Library{entries: make(map[string]*Entry)}

	reader := NewReader(r)
	for reader.Next() {
		entry := reader.Entry()
		if err := entry.Spectrum.Validate(); err != nil {
			return nil, fmt.Errorf("library entry %q: %w", entry.Name, err)
		}
		lib.add(entry.Name, entry)
		for _, syn := range entry.Synonyms {
			lib.add(syn, entry)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	return lib, nil
}

// OpenLibrary loads the MSP library at path.
func OpenLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	defer f.Close()

	lib, err := LoadLibrary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("entries", lib.Len()).Msg("loaded reference library")
	return lib, nil
}

func (l *Library) add(name string, entry *Entry) {
	key := libraryKey(name)
	if key == "" {
		return
	}
	if _, exists := l.entries[key]; !exists {
		l.entries[key] = entry
	}
}

// Lookup finds an entry by compound name.
func (l *Library) Lookup(name string) (*Entry, bool) {
	entry, ok := l.entries[libraryKey(name)]
	return entry, ok
}

// Len returns the number of distinct lookup keys.
func (l *Library) Len() int {
	return len(l.entries)
}

// Resolve attaches a library reference spectrum to every peak that has none,
// matching on the peak's compound name. It returns how many peaks were filled.
func (l *Library) Resolve(peaks []*core.PeakRecord) int {
	filled := 0
	for _, peak := range peaks {
		if peak == nil || !peak.Reference.Empty() {
			continue
		}
		entry, ok := l.Lookup(peak.Name)
		if !ok {
			log.Debug().Str("compound", peak.Name).Msg("no library entry for compound")
			continue
		}
		peak.Reference = entry.Spectrum.Clone()
		filled++
	}
	return filled
}

func libraryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
