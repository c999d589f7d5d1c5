package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Kind is the type an environment value is parsed as.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

// EnvLoader loads settings from environment variables named
// PREFIX_SECTION_KEY, e.g. SUBFIX_LINE_BREAK_MAX_LENGTH for
// line_break.max_length.
type EnvLoader struct {
	prefix string
	keys   map[string]Kind // setting path -> kind
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader for the given setting paths. The prefix
// should include the trailing underscore (e.g. "SUBFIX_").
func NewEnvLoader(prefix string, keys map[string]Kind) *EnvLoader {
	return &EnvLoader{prefix: prefix, keys: keys, lookup: os.LookupEnv}
}

// EnvName returns the variable overriding the setting at path.
func (l *EnvLoader) EnvName(path string) string {
	name := strings.NewReplacer(".", "_", "-", "_").Replace(path)
	return l.prefix + strings.ToUpper(name)
}

// Load returns the settings whose variables are set. Empty values count
// as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for path, kind := range l.keys {
		env := l.EnvName(path)
		raw, ok := l.lookup(env)
		if !ok {
			continue
		}
		val, err := parseValue(raw, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env, err)
		}
		setByPath(config, path, val)
	}
	return config, nil
}

func parseValue(s string, kind Kind) (any, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case Int:
		return strconv.ParseInt(s, 10, 64)
	case Float:
		return strconv.ParseFloat(s, 64)
	case Bool:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0", "":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	default:
		return s, nil
	}
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
