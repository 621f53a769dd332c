package display

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"grid", Grid, false},
		{"LIST", List, false},
		{" masonry ", Masonry, false},
		{"tiles", None, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidMode) {
			t.Errorf("ParseMode(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeText(t *testing.T) {
	var m Mode
	assert.NilError(t, m.UnmarshalText([]byte("masonry")))
	assert.Equal(t, m, Masonry)

	b, err := Grid.MarshalText()
	assert.NilError(t, err)
	assert.Equal(t, string(b), "grid")
	assert.Equal(t, Mode(42).String(), "unknown")
}

func TestResolver(t *testing.T) {
	r := Resolver{
		Default:    List,
		Categories: map[string]Mode{"photos": Masonry, "shop": Grid},
	}

	assert.Equal(t, r.Resolve("photos"), Masonry)
	assert.Equal(t, r.Resolve("general"), List)
	assert.Assert(t, r.Masonry("photos"))
	assert.Assert(t, r.Grid("shop"))
	assert.Assert(t, r.List("general"))
	assert.Assert(t, !r.Masonry("general"))

	var zero Resolver
	assert.Equal(t, zero.Resolve("anything"), None)
}

func TestStrategyClasses(t *testing.T) {
	tests := []struct {
		mode  Mode
		class string
	}{
		{None, ""},
		{Grid, "topic-thumbnails-grid"},
		{List, "topic-thumbnails-list"},
		{Masonry, "topic-thumbnails-masonry"},
	}
	for _, tt := range tests {
		s := For(tt.mode)
		assert.Equal(t, s.Mode(), tt.mode)
		assert.Equal(t, s.ListClass(), tt.class)
	}
}

func TestOnlyMasonryInjectsGeometry(t *testing.T) {
	l, ok := masonry.Compute(masonry.DefaultConfig(), 900, []masonry.Item{{ID: "a"}})
	assert.Assert(t, ok)
	p := l.Placements[0]

	for _, m := range []Mode{None, Grid, List} {
		s := For(m)
		assert.Equal(t, s.ListStyle(&l), "", "mode %v", m)
		assert.Equal(t, s.ItemStyle(&p), "", "mode %v", m)
	}

	s := For(Masonry)
	assert.Equal(t, s.ListStyle(&l),
		"--masonry-num-columns: 3; --masonry-grid-spacing: 50px; --masonry-tallest-column: 331px; --masonry-column-width: 267px;")
	assert.Equal(t, s.ItemStyle(&p),
		"--masonry-height: 281px; --masonry-height-above: 0px; --masonry-column-index: 0;")
	assert.Equal(t, s.ListStyle(nil), "")
	assert.Equal(t, s.ItemStyle(nil), "")
}

func TestForceDesktop(t *testing.T) {
	tests := []struct {
		mode   Mode
		mobile bool
		want   bool
	}{
		{Grid, true, true},
		{Masonry, true, true},
		{List, true, false},
		{None, true, false},
		{Grid, false, false},
		{Masonry, false, false},
	}
	for _, tt := range tests {
		if got := For(tt.mode).ForceDesktop(tt.mobile); got != tt.want {
			t.Errorf("For(%v).ForceDesktop(%v) = %v, want %v", tt.mode, tt.mobile, got, tt.want)
		}
	}
}
