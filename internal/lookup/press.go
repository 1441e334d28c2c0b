// Package lookup holds the static tables and parsers the news API needs
// outside the data-access layer: the publisher directory and the id-list
// parser used by bulk reads.
package lookup

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// ErrUnknownPress is returned for a publisher id missing from the directory.
var ErrUnknownPress = errors.New("unknown press")

// defaultPresses maps the news portal's publisher ids to display names.
var defaultPresses = map[int]string{
	32:  "경향신문",
	5:   "국민일보",
	20:  "동아일보",
	21:  "문화일보",
	81:  "서울신문",
	22:  "세계일보",
	23:  "조선일보",
	25:  "중앙일보",
	28:  "한겨레",
	469: "한국일보",
}

// PressDirectory resolves publisher ids to names. It is immutable once
// built and safe for concurrent use.
type PressDirectory struct {
	names map[int]string
}

// Press is one directory entry.
type Press struct {
	PID  int    `json:"pid" mapstructure:"pid"`
	Name string `json:"name" mapstructure:"name"`
}

// DefaultPressDirectory returns the built-in directory.
func DefaultPressDirectory() *PressDirectory {
	return &PressDirectory{names: maps.Clone(defaultPresses)}
}

// NewPressDirectory builds a directory from entries.
func NewPressDirectory(entries []Press) (*PressDirectory, error) {
	names := make(map[int]string, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if e.PID <= 0 {
			return nil, fmt.Errorf("press %q: pid must be positive, got %d", name, e.PID)
		}
		if name == "" {
			return nil, fmt.Errorf("press %d: name is required", e.PID)
		}
		if _, dup := names[e.PID]; dup {
			return nil, fmt.Errorf("press %d listed twice", e.PID)
		}
		names[e.PID] = name
	}
	return &PressDirectory{names: names}, nil
}

// LoadPressDirectory reads the directory from a YAML, JSON or TOML file
// holding a "press" list of {pid, name} entries. An empty path returns the
// built-in directory.
func LoadPressDirectory(path string) (*PressDirectory, error) {
	if path == "" {
		return DefaultPressDirectory(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read press file: %w", err)
	}

	var entries []Press
	if err := v.UnmarshalKey("press", &entries); err != nil {
		return nil, fmt.Errorf("decode press file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("press file %s has no entries", path)
	}
	return NewPressDirectory(entries)
}

// Name returns the display name for pid.
func (d *PressDirectory) Name(pid int) (string, error) {
	name, ok := d.names[pid]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownPress, pid)
	}
	return name, nil
}

// Len returns the number of entries.
func (d *PressDirectory) Len() int { return len(d.names) }

// All returns every entry ordered by pid.
func (d *PressDirectory) All() []Press {
	pids := slices.Sorted(maps.Keys(d.names))
	out := make([]Press, len(pids))
	for i, pid := range pids {
		out[i] = Press{PID: pid, Name: d.names[pid]}
	}
	return out
}
