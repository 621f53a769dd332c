// Package display decides how a topic list is presented and what markup
// hints each presentation needs.
//
// A [Resolver] plays the role of the display-mode service: it maps a
// category to a [Mode]. Each mode has a [Strategy] that supplies the list's
// class name and inline styles. Only the masonry strategy injects layout
// geometry; the others are pure CSS class toggles.
package display

import (
	"strings"

	"github.com/matzehuels/topicgrid/pkg/errors"
)

// Mode is a topic list presentation.
type Mode int

const (
	// None leaves the host's default list untouched.
	None Mode = iota
	// Grid shows thumbnails in a fixed responsive grid.
	Grid
	// List shows a thumbnail next to each row.
	List
	// Masonry packs thumbnails into balanced columns.
	Masonry
)

var modeNames = map[Mode]string{
	None:    "none",
	Grid:    "grid",
	List:    "list",
	Masonry: "masonry",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode parses a mode name, case-insensitively. The empty string is None.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return None, errors.New(errors.ErrCodeInvalidMode, "invalid display mode: %q (must be one of: none, grid, list, masonry)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Resolver maps categories to display modes.
type Resolver struct {
	Default    Mode            `toml:"default"`
	Categories map[string]Mode `toml:"categories"`
}

// Resolve returns the mode for category, falling back to Default.
func (r Resolver) Resolve(category string) Mode {
	if m, ok := r.Categories[category]; ok {
		return m
	}
	return r.Default
}

// Grid reports whether category renders as a grid.
func (r Resolver) Grid(category string) bool { return r.Resolve(category) == Grid }

// List reports whether category renders as a thumbnail list.
func (r Resolver) List(category string) bool { return r.Resolve(category) == List }

// Masonry reports whether category renders as masonry.
func (r Resolver) Masonry(category string) bool { return r.Resolve(category) == Masonry }
