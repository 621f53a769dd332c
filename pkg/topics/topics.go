// Package topics holds the topic list model and its import and storage
// formats.
//
// A topic carries zero or more thumbnails; only the first one is used for
// layout, matching how forum software orders the original upload before its
// resized variants.
package topics

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
)

// Thumbnail is one image variant of a topic's thumbnail.
type Thumbnail struct {
	URL    string  `json:"url"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Topic is a single row of a topic list.
type Topic struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Category   string      `json:"category,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail returns the topic's primary thumbnail, or nil.
func (t Topic) Thumbnail() *Thumbnail {
	if len(t.Thumbnails) == 0 {
		return nil
	}
	return &t.Thumbnails[0]
}

// Item converts the topic to a layout item.
func (t Topic) Item() masonry.Item {
	item := masonry.Item{ID: t.ID}
	if th := t.Thumbnail(); th != nil {
		item.Thumbnail = &masonry.Size{Width: th.Width, Height: th.Height}
	}
	return item
}

// Items converts topics to layout items, preserving order.
func Items(topics []Topic) []masonry.Item {
	items := make([]masonry.Item, len(topics))
	for i, t := range topics {
		items[i] = t.Item()
	}
	return items
}

// InCategory returns the topics whose category is category. An empty
// category matches everything.
func InCategory(topics []Topic, category string) []Topic {
	if category == "" {
		return topics
	}
	var out []Topic
	for _, t := range topics {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks IDs and thumbnail dimensions.
func Validate(topics []Topic) error {
	for _, t := range topics {
		if err := errors.ValidateItemID(t.ID); err != nil {
			return err
		}
		for _, th := range t.Thumbnails {
			if err := errors.ValidateThumbnail(th.Width, th.Height); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidItem, err, "topic %s", t.ID)
			}
		}
	}
	return nil
}

// ReadJSON decodes a JSON array of topics. Topics without an ID are given a
// random one.
func ReadJSON(r io.Reader) ([]Topic, error) {
	var topics []Topic
	if err := json.NewDecoder(r).Decode(&topics); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode topics")
	}
	if err := Normalize(topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// Normalize gives topics without an ID a random one, then validates all of
// them.
func Normalize(topics []Topic) error {
	assignIDs(topics)
	return Validate(topics)
}

// ReadFile reads a JSON topic list from path.
func ReadFile(path string) ([]Topic, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "topics file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes topics as indented JSON.
func WriteJSON(w io.Writer, topics []Topic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(topics)
}

// WriteFile writes topics to path as JSON.
func WriteFile(path string, topics []Topic) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, topics); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func assignIDs(topics []Topic) {
	for i := range topics {
		if strings.TrimSpace(topics[i].ID) == "" {
			topics[i].ID = uuid.NewString()
		}
	}
}
