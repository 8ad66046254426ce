// Package scrape extracts listing metadata from retrieved auction
// page markup.
package scrape

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PlaceholderTitle is stored when the source page carries no title.
const PlaceholderTitle = "NO TITLE"

// Metadata is the initial field set captured from a source page.
type Metadata struct {
	Title     string
	SourceURL string
	Image     string
	RawID     string
}

// Extract pulls the page title and the og:image preview out of the
// markup. Missing title falls back to the placeholder, missing image
// to empty; RawID is the last path segment of the source URL.
func Extract(body []byte, sourceURL string) Metadata {
	m := Metadata{
		Title:     PlaceholderTitle,
		SourceURL: sourceURL,
		RawID:     lastPathSegment(sourceURL),
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return m
	}

	var walk func(*html.Node)
	var titleDone, imageDone bool
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if !titleDone {
					if t := strings.TrimSpace(textContent(n)); t != "" {
						m.Title = t
					}
					titleDone = true
				}
			case "meta":
				if !imageDone && attr(n, "property") == "og:image" {
					if c := attr(n, "content"); c != "" {
						m.Image = c
						imageDone = true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil && !(titleDone && imageDone); c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return m
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func lastPathSegment(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		parts := strings.Split(strings.TrimRight(sourceURL, "/"), "/")
		return parts[len(parts)-1]
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return ""
	}
	return path[strings.LastIndex(path, "/")+1:]
}
