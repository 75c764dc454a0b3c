// Package config loads comparison definitions from a TOML file and runtime
// settings from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// AllComparisons selects every comparison in the file.
const AllComparisons = ":all:"

// Comparison describes one reference-vs-unknown comparison.
type Comparison struct {
	Name       string            `toml:"-"`
	Aligned    string            `toml:"aligned"`    // Aligned peak JSON file
	OutputDir  string            `toml:"output_dir"` // Directory for JSON/CSV reports
	References []string          `toml:"references"` // Reference sample IDs, in report order
	Unknown    string            `toml:"unknown"`    // Optional unknown sample ID
	Names      map[string]string `toml:"names"`      // Display name overrides keyed by sample ID
}

// File is a parsed comparison file keyed by comparison name.
type File struct {
	comparisons map[string]*Comparison
	order       []string
}

// Load parses the comparison file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	f, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes comparison definitions from TOML text.
func Parse(data string) (*File, error) {
	var raw map[string]*Comparison
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	f := &File{comparisons: make(map[string]*Comparison, len(raw))}
	// TOML tables are unordered once decoded; keep the file's key order
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		c := raw[name]
		if c == nil {
			continue
		}
		c.Name = name
		if err := c.Validate(); err != nil {
			return nil, err
		}
		f.comparisons[name] = c
		f.order = append(f.order, name)
	}

	return f, nil
}

// Names returns the comparison names in file order.
func (f *File) Names() []string {
	return f.order
}

// Get returns a comparison by name.
func (f *File) Get(name string) (*Comparison, bool) {
	c, ok := f.comparisons[name]
	return c, ok
}

// Select resolves a selector: AllComparisons, or a comma-separated list of names.
func (f *File) Select(selector string) ([]*Comparison, error) {
	selector = strings.TrimSpace(selector)
	if selector == AllComparisons {
		out := make([]*Comparison, len(f.order))
		for i, name := range f.order {
			out[i] = f.comparisons[name]
		}
		return out, nil
	}

	var out []*Comparison
	var missing []string
	for _, name := range strings.Split(selector, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, ok := f.comparisons[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, c)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown comparisons: %s", strings.Join(missing, ", "))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no comparisons selected by %q", selector)
	}
	return out, nil
}

// Validate checks that the comparison names its inputs and samples.
func (c *Comparison) Validate() error {
	if c.Aligned == "" {
		return fmt.Errorf("comparison %s: aligned is required", c.Name)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("comparison %s: output_dir is required", c.Name)
	}
	if len(c.References) == 0 {
		return fmt.Errorf("comparison %s: at least one reference is required", c.Name)
	}

	seen := make(map[string]bool, len(c.References)+1)
	for _, id := range c.SampleOrder() {
		if seen[id] {
			return fmt.Errorf("comparison %s: sample %q listed twice", c.Name, id)
		}
		seen[id] = true
	}
	return nil
}

// SampleOrder returns the sample IDs in report order: the first reference, then
// the unknown when present, then the remaining references.
func (c *Comparison) SampleOrder() []string {
	order := make([]string, 0, len(c.References)+1)
	order = append(order, c.References[0])
	if c.Unknown != "" {
		order = append(order, c.Unknown)
	}
	return append(order, c.References[1:]...)
}
