package news

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const fetchTimeout = 10 * time.Second

// Some publishers block default Go user agents outright.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0 Safari/537.36"

var publishedMetaProps = map[string]bool{
	"article:published_time": true,
	"og:published_time":      true,
	"article:modified_time":  true,
}

// tryParseDate accepts the ISO-8601 variants publishers actually emit.
func tryParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "Z"))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// fetchPublishedDate pulls the article page and looks for a publish
// timestamp in article/og meta tags, then in ld+json blocks. Any failure
// returns a zero time; the caller treats the date as unknown.
func fetchPublishedDate(ctx context.Context, client *http.Client, url string) (time.Time, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, false
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return time.Time{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return time.Time{}, false
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return time.Time{}, false
	}
	return findPublishedDate(doc)
}

func findPublishedDate(n *html.Node) (time.Time, bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			var prop, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "property":
					prop = a.Val
				case "content":
					content = a.Val
				}
			}
			if publishedMetaProps[prop] {
				if t, ok := tryParseDate(content); ok {
					return t, true
				}
			}
		case "script":
			for _, a := range n.Attr {
				if a.Key == "type" && a.Val == "application/ld+json" && n.FirstChild != nil {
					if t, ok := dateFromLDJSON(n.FirstChild.Data); ok {
						return t, true
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t, ok := findPublishedDate(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateFromLDJSON(text string) (time.Time, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return time.Time{}, false
	}
	for _, key := range []string{"datePublished", "dateModified"} {
		if v, ok := data[key].(string); ok {
			if t, ok := tryParseDate(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
