package pattern

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a pattern file.
type fileFormat struct {
	Patterns []filePattern `yaml:"patterns"`
}

type filePattern struct {
	Pattern     string   `yaml:"pattern"`
	Flags       []string `yaml:"flags,omitempty"`
	Replacement string   `yaml:"replacement,omitempty"`
	Enabled     *bool    `yaml:"enabled,omitempty"`
	Repeat      bool     `yaml:"repeat,omitempty"`
	Capitalize  string   `yaml:"capitalize,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// LoadFile reads a pattern table from a YAML file.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pattern file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return t, nil
}

// Load reads a pattern table from YAML. Patterns without an enabled key
// are enabled.
func Load(r io.Reader) (Table, error) {
	var ff fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ff); err != nil {
		if err == io.EOF {
			return Table{}, nil
		}
		return nil, fmt.Errorf("decoding patterns: %w", err)
	}

	t := make(Table, 0, len(ff.Patterns))
	for i, fp := range ff.Patterns {
		flags, err := ParseFlags(fp.Flags)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		mode, err := ParseCapitalizeMode(fp.Capitalize)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		enabled := true
		if fp.Enabled != nil {
			enabled = *fp.Enabled
		}
		t = append(t, Pattern{
			Source:      fp.Pattern,
			Flags:       flags,
			Replacement: fp.Replacement,
			Enabled:     enabled,
			Repeat:      fp.Repeat,
			Capitalize:  mode,
			Description: fp.Description,
		})
	}
	return t, nil
}

// Save writes a pattern table as YAML.
func Save(w io.Writer, t Table) error {
	ff := fileFormat{Patterns: make([]filePattern, len(t))}
	for i, p := range t {
		enabled := p.Enabled
		fp := filePattern{
			Pattern:     p.Source,
			Flags:       p.Flags.Names(),
			Replacement: p.Replacement,
			Enabled:     &enabled,
			Repeat:      p.Repeat,
			Description: p.Description,
		}
		if p.Capitalize != CapitalizeNone {
			fp.Capitalize = p.Capitalize.String()
		}
		ff.Patterns[i] = fp
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ff); err != nil {
		return fmt.Errorf("encoding patterns: %w", err)
	}
	return enc.Close()
}
