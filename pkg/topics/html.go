package topics

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/topicgrid/pkg/errors"
)

// ReadHTML imports topics from a rendered topic list page.
//
// Every element carrying a data-topic-id attribute is a topic. Its title is
// the text of the first descendant with class "title" and its thumbnail is
// the first <img>, sized from its width and height attributes. A
// data-category attribute on the row sets the category.
func ReadHTML(r io.Reader) ([]Topic, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse topic list html")
	}

	var topics []Topic
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "data-topic-id"); id != "" {
				topics = append(topics, topicFromNode(n, id))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if err := Normalize(topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func topicFromNode(row *html.Node, id string) Topic {
	t := Topic{
		ID:       strings.TrimSpace(id),
		Category: getAttr(row, "data-category"),
	}
	if title := find(row, func(n *html.Node) bool { return hasClass(n, "title") }); title != nil {
		t.Title = strings.Join(strings.Fields(getTextContent(title)), " ")
	}
	if img := find(row, func(n *html.Node) bool { return n.Data == "img" }); img != nil {
		t.Thumbnails = []Thumbnail{{
			URL:    getAttr(img, "src"),
			Width:  parseDim(getAttr(img, "width")),
			Height: parseDim(getAttr(img, "height")),
		}}
	}
	return t
}

// parseDim reads an HTML dimension attribute. Missing or malformed values
// are 0, which layout treats as unknown.
func parseDim(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
