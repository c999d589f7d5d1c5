package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/subfix/internal/config/loader"
	"github.com/dshills/subfix/internal/engine/textlen"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUBFIX_"

// Config is the complete set of settings.
type Config struct {
	History   HistoryConfig   `toml:"history"`
	LineBreak LineBreakConfig `toml:"line_break"`
	Patterns  PatternsConfig  `toml:"patterns"`
	Logging   LoggingConfig   `toml:"logging"`

	path string
}

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	// LimitUndo enables the UndoLevels limit.
	LimitUndo bool `toml:"limit_undo"`

	// UndoLevels is the number of actions kept when LimitUndo is set.
	UndoLevels int `toml:"undo_levels"`
}

// MaxEntries returns the history depth; 0 is unbounded.
func (h HistoryConfig) MaxEntries() int {
	if !h.LimitUndo {
		return 0
	}
	return h.UndoLevels
}

// LineBreakConfig controls line breaking.
type LineBreakConfig struct {
	MaxLength     int     `toml:"max_length"`
	MaxLines      int     `toml:"max_lines"`
	MaxDeviation  float64 `toml:"max_deviation"`
	Skip          bool    `toml:"skip"`
	MaxSkipLength int     `toml:"max_skip_length"`
	MaxSkipLines  int     `toml:"max_skip_lines"`

	// LengthUnit selects how line length is measured.
	LengthUnit string `toml:"length_unit"`

	// LengthScript is the Lua script used when LengthUnit is "lua".
	LengthScript string `toml:"length_script"`
}

// PatternsConfig names pattern files. Empty paths use the built-in
// tables.
type PatternsConfig struct {
	Capitalize      string `toml:"capitalize"`
	CommonErrors    string `toml:"common_errors"`
	HearingImpaired string `toml:"hearing_impaired"`
	LineBreak       string `toml:"line_break"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			LimitUndo:  false,
			UndoLevels: 50,
		},
		LineBreak: LineBreakConfig{
			MaxLength:    44,
			MaxLines:     2,
			MaxDeviation: 0.16,
			LengthUnit:   string(textlen.UnitRunes),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envKeys lists every setting that can be overridden from the
// environment.
var envKeys = map[string]loader.Kind{
	"history.limit_undo":         loader.Bool,
	"history.undo_levels":        loader.Int,
	"line_break.max_length":      loader.Int,
	"line_break.max_lines":       loader.Int,
	"line_break.max_deviation":   loader.Float,
	"line_break.skip":            loader.Bool,
	"line_break.max_skip_length": loader.Int,
	"line_break.max_skip_lines":  loader.Int,
	"line_break.length_unit":     loader.String,
	"line_break.length_script":   loader.String,
	"patterns.capitalize":        loader.String,
	"patterns.common_errors":     loader.String,
	"patterns.hearing_impaired":  loader.String,
	"patterns.line_break":        loader.String,
	"logging.level":              loader.String,
	"logging.format":             loader.String,
}

// DefaultPath returns the user configuration file,
// $XDG_CONFIG_HOME/subfix/config.toml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "subfix", "config.toml")
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error. The result is validated.
func Load(path string) (*Config, error) {
	return load(loader.NewTOMLLoader(path), loader.NewEnvLoader(EnvPrefix, envKeys))
}

func load(sources ...loader.Loader) (*Config, error) {
	var merged map[string]any
	var path string
	for _, src := range sources {
		m, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.Merge(merged, m)
		if tl, ok := src.(*loader.TOMLLoader); ok && m != nil {
			path = tl.Path()
		}
	}

	cfg := Default()
	if len(merged) > 0 {
		data, err := toml.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decoding settings: %w", err)
		}
	}
	cfg.path = path
	cfg.Patterns.expand(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the settings were read from, if any.
func (c *Config) Path() string {
	return c.path
}

// expand resolves ~ and paths relative to the configuration file.
func (p *PatternsConfig) expand(base string) {
	for _, s := range []*string{&p.Capitalize, &p.CommonErrors, &p.HearingImpaired, &p.LineBreak} {
		*s = expandPath(*s, base)
	}
}

func expandPath(path, base string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if !filepath.IsAbs(path) && base != "" {
		return filepath.Join(base, path)
	}
	return path
}

// Validate reports the first setting outside its allowed range.
func (c *Config) Validate() error {
	lb := c.LineBreak
	switch {
	case c.History.UndoLevels < 0:
		return fmt.Errorf("%w: history.undo_levels must not be negative", ErrValidationFailed)
	case lb.MaxLength < 0:
		return fmt.Errorf("%w: line_break.max_length must not be negative", ErrValidationFailed)
	case lb.MaxLines < 0:
		return fmt.Errorf("%w: line_break.max_lines must not be negative", ErrValidationFailed)
	case lb.MaxDeviation < 0 || lb.MaxDeviation >= 1:
		return fmt.Errorf("%w: line_break.max_deviation must be in [0, 1)", ErrValidationFailed)
	case lb.MaxSkipLength < 0 || lb.MaxSkipLines < 0:
		return fmt.Errorf("%w: line_break skip limits must not be negative", ErrValidationFailed)
	}

	switch textlen.Unit(lb.LengthUnit) {
	case textlen.UnitLua:
		if lb.LengthScript == "" {
			return fmt.Errorf("%w: line_break.length_script is required for the lua unit", ErrValidationFailed)
		}
	default:
		if _, err := textlen.ForUnit(textlen.Unit(lb.LengthUnit)); err != nil {
			return fmt.Errorf("%w: line_break.length_unit: %v", ErrValidationFailed, err)
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be text or json", ErrValidationFailed)
	}
	return nil
}

// LengthFunc returns the configured line length function. The returned
// close function releases a Lua state and must be called when done.
// Failures of a length script are logged to logger.
func (c *Config) LengthFunc(logger *slog.Logger) (textlen.Func, func(), error) {
	unit := textlen.Unit(c.LineBreak.LengthUnit)
	if unit != textlen.UnitLua {
		fn, err := textlen.ForUnit(unit)
		return fn, func() {}, err
	}
	l, err := textlen.NewLua(expandPath(c.LineBreak.LengthScript, filepath.Dir(c.path)), textlen.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return l.Func(), l.Close, nil
}
