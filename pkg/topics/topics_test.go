package topics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
)

func sample() []Topic {
	return []Topic{
		{ID: "1", Title: "Welcome to the forum", Category: "general"},
		{ID: "2", Title: "Sunset over the bay", Category: "photos", Thumbnails: []Thumbnail{
			{URL: "/uploads/sunset.jpg", Width: 200, Height: 100},
			{URL: "/uploads/sunset_small.jpg", Width: 100, Height: 50},
		}},
		{ID: "3", Title: "Mountain poster", Category: "photos", Thumbnails: []Thumbnail{
			{URL: "/uploads/poster.jpg", Width: 100, Height: 400},
		}},
	}
}

func TestItemsUsesFirstThumbnail(t *testing.T) {
	got := Items(sample())
	want := []masonry.Item{
		{ID: "1"},
		{ID: "2", Thumbnail: &masonry.Size{Width: 200, Height: 100}},
		{ID: "3", Thumbnail: &masonry.Size{Width: 100, Height: 400}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestInCategory(t *testing.T) {
	assert.Equal(t, len(InCategory(sample(), "")), 3)
	photos := InCategory(sample(), "photos")
	assert.Equal(t, len(photos), 2)
	assert.Equal(t, photos[0].ID, "2")
	assert.Equal(t, len(InCategory(sample(), "missing")), 0)
}

func TestReadJSONAssignsIDs(t *testing.T) {
	in := `[{"title": "no id"}, {"id": "keep", "title": "has id"}]`
	got, err := ReadJSON(strings.NewReader(in))
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)

	_, err = uuid.Parse(got[0].ID)
	assert.NilError(t, err, "blank id should be replaced with a uuid")
	assert.Equal(t, got[1].ID, "keep")
}

func TestReadJSONRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"id":`, errors.ErrCodeInvalidInput},
		{"bad id", `[{"id": "a b"}]`, errors.ErrCodeInvalidItem},
		{"negative thumbnail", `[{"id": "a", "thumbnails": [{"url": "/x", "width": -1, "height": 5}]}]`, errors.ErrCodeInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			assert.Assert(t, err != nil)
			assert.Equal(t, errors.GetCode(err), tt.code)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.json")
	assert.NilError(t, WriteFile(path, sample()))

	got, err := ReadFile(path)
	assert.NilError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Assert(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestWriteJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, WriteJSON(&buf, sample()[:1]))
	assert.Assert(t, strings.Contains(buf.String(), "\n  {"))
}

const topicListHTML = `<!DOCTYPE html>
<html><body>
<table class="topic-list">
  <tbody>
    <tr data-topic-id="101" data-category="photos">
      <td><a class="title" href="/t/101">Sunset   over
        the bay</a></td>
      <td><img src="/uploads/sunset.jpg" width="200" height="100"></td>
    </tr>
    <tr data-topic-id="102">
      <td><span class="link-top-line"><a class="title raw-link" href="/t/102">Welcome</a></span></td>
    </tr>
    <tr data-topic-id="103">
      <td><a class="title">Broken sizes</a><img src="/p.png" width="auto" height="40px"></td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestReadHTML(t *testing.T) {
	got, err := ReadHTML(strings.NewReader(topicListHTML))
	assert.NilError(t, err)

	want := []Topic{
		{ID: "101", Title: "Sunset over the bay", Category: "photos", Thumbnails: []Thumbnail{
			{URL: "/uploads/sunset.jpg", Width: 200, Height: 100},
		}},
		{ID: "102", Title: "Welcome"},
		{ID: "103", Title: "Broken sizes", Thumbnails: []Thumbnail{
			{URL: "/p.png", Width: 0, Height: 40},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadHTML() mismatch (-want +got):\n%s", diff)
	}

	// Unusable width means the item falls back to the default aspect.
	assert.Assert(t, !got[2].Item().HasDimensions())
}

func TestFilter(t *testing.T) {
	all := sample()

	assert.DeepEqual(t, Filter(all, ""), all)
	assert.DeepEqual(t, Filter(all, "   "), all)

	got := Filter(all, "sunset")
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].ID, "2")

	assert.Equal(t, len(Filter(all, "zzzz")), 0)
}

func TestSQLiteStore(t *testing.T) {
	ctx := t.Context()
	s, err := Open(filepath.Join(t.TempDir(), "db", "topics.db"))
	assert.NilError(t, err)
	defer s.Close()

	assert.NilError(t, s.Save(ctx, sample()))

	got, err := s.List(ctx, "")
	assert.NilError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	photos, err := s.List(ctx, "photos")
	assert.NilError(t, err)
	assert.Equal(t, len(photos), 2)
	assert.Equal(t, photos[0].ID, "2")
	assert.Equal(t, len(photos[0].Thumbnails), 2)

	// Save replaces the previous list.
	assert.NilError(t, s.Save(ctx, sample()[:1]))
	got, err = s.List(ctx, "")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "topics.db")

	s, err := Open(path)
	assert.NilError(t, err)
	assert.NilError(t, s.Save(ctx, sample()))
	assert.NilError(t, s.Close())

	_, err = os.Stat(path)
	assert.NilError(t, err)

	s, err = Open(path)
	assert.NilError(t, err)
	defer s.Close()

	got, err := s.List(ctx, "")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
}

func TestSQLiteStoreMemory(t *testing.T) {
	s, err := Open(":memory:")
	assert.NilError(t, err)
	defer s.Close()

	got, err := s.List(t.Context(), "")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)

	err = s.Save(t.Context(), []Topic{{ID: ""}})
	assert.Assert(t, errors.Is(err, errors.ErrCodeInvalidItem))
}
