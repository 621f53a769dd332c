// Package forum reads topic lists from a Discourse forum's JSON API.
//
// The latest list is fetched page by page from /latest.json, or from
// /c/<slug>.json for one category, and converted to [topics.Topic] values
// with their thumbnail variants in the order the forum sends them.
package forum

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matzehuels/topicgrid/pkg/topics"
)

// MaxPages caps how many pages one Latest call follows.
const MaxPages = 20

type topicListResponse struct {
	TopicList struct {
		MoreTopicsURL string     `json:"more_topics_url"`
		Topics        []apiTopic `json:"topics"`
	} `json:"topic_list"`
}

type apiTopic struct {
	ID         int64          `json:"id"`
	Title      string         `json:"title"`
	CategoryID int64          `json:"category_id"`
	Thumbnails []apiThumbnail `json:"thumbnails"`
}

// Width and height are null for variants the forum has not generated yet.
type apiThumbnail struct {
	URL    string   `json:"url"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type categoriesResponse struct {
	CategoryList struct {
		Categories []struct {
			ID   int64  `json:"id"`
			Slug string `json:"slug"`
		} `json:"categories"`
	} `json:"category_list"`
}

// ListOptions selects which topics Latest fetches.
type ListOptions struct {
	// Category is a category slug; empty means all categories.
	Category string

	// Pages is the number of pages to follow, 1 when zero, at most MaxPages.
	Pages int

	// Refresh bypasses cached responses.
	Refresh bool
}

// Categories returns the forum's category slugs by ID.
func (c *Client) Categories(ctx context.Context, refresh bool) (map[int64]string, error) {
	var resp categoriesResponse
	err := c.cached(ctx, "/categories.json", refresh, &resp, func() error {
		return c.getJSON(ctx, "/categories.json", nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	slugs := make(map[int64]string, len(resp.CategoryList.Categories))
	for _, cat := range resp.CategoryList.Categories {
		slugs[cat.ID] = cat.Slug
	}
	return slugs, nil
}

// Latest fetches the latest topics in list order.
func (c *Client) Latest(ctx context.Context, opts ListOptions) ([]topics.Topic, error) {
	pages := min(max(opts.Pages, 1), MaxPages)
	path := "/latest.json"
	if opts.Category != "" {
		path = "/c/" + url.PathEscape(opts.Category) + ".json"
	}

	// Slugs are a nicety: a forum that hides /categories.json still lists.
	slugs, err := c.Categories(ctx, opts.Refresh)
	if err != nil {
		slugs = nil
	}

	var out []topics.Topic
	for page := 0; page < pages; page++ {
		var query url.Values
		if page > 0 {
			query = url.Values{"page": {strconv.Itoa(page)}}
		}

		var resp topicListResponse
		key := path + "?" + query.Encode()
		err := c.cached(ctx, key, opts.Refresh, &resp, func() error {
			return c.getJSON(ctx, path, query, &resp)
		})
		if err != nil {
			return nil, err
		}

		for _, t := range resp.TopicList.Topics {
			out = append(out, convert(t, slugs, opts.Category))
		}
		if resp.TopicList.MoreTopicsURL == "" || len(resp.TopicList.Topics) == 0 {
			break
		}
	}
	return out, nil
}

func convert(t apiTopic, slugs map[int64]string, fallback string) topics.Topic {
	topic := topics.Topic{
		ID:       strconv.FormatInt(t.ID, 10),
		Title:    t.Title,
		Category: fallback,
	}
	if slug, ok := slugs[t.CategoryID]; ok {
		topic.Category = slug
	} else if topic.Category == "" && t.CategoryID != 0 {
		topic.Category = strconv.FormatInt(t.CategoryID, 10)
	}

	for _, th := range t.Thumbnails {
		v := topics.Thumbnail{URL: th.URL}
		if th.Width != nil {
			v.Width = *th.Width
		}
		if th.Height != nil {
			v.Height = *th.Height
		}
		topic.Thumbnails = append(topic.Thumbnails, v)
	}
	return topic
}
