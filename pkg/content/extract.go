package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrMalformedContent marks a fragment of a page that could not be parsed.
// Extraction skips such fragments and continues.
var ErrMalformedContent = errors.New("malformed content")

// ExtractOptions controls HTML extraction.
type ExtractOptions struct {
	// BaseURL is the page's own URL. Links to other hosts count as external.
	// When empty, every absolute http(s) link counts as external.
	BaseURL string
	// OnMalformed, if set, receives each skipped fragment's error.
	OnMalformed func(error)
}

// nonContent matches chrome that never carries citable text.
const nonContent = "script, style, noscript, template, iframe, form, header, footer, nav, aside, " +
	".header, .footer, .navigation, .sidebar, .menu, .breadcrumb, .cookie-banner"

// blockSelector lists the elements whose text becomes a paragraph.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, dt, dd, figcaption, caption, td, th"

var whitespace = regexp.MustCompile(`\s+`)

// Extract parses HTML into a Document. Malformed markup never fails the
// extraction; only a failing reader does.
func Extract(r io.Reader, opts ExtractOptions) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	counts := StructuralCounts{
		Images:       dom.Find("img").Length(),
		Lists:        dom.Find("ul, ol").Length(),
		Tables:       dom.Find("table").Length(),
		Headings:     dom.Find("h1, h2, h3, h4, h5, h6").Length(),
		SchemaBlocks: countSchemaBlocks(dom, opts.OnMalformed),
	}

	body := dom.Find("body")
	if body.Length() == 0 {
		body = dom.Selection
	}
	body.Find(nonContent).Remove()

	counts.ExternalLinks = countExternalLinks(body, opts.BaseURL)

	return FromCounts(extractText(body), counts), nil
}

// ExtractString is a convenience wrapper around Extract.
func ExtractString(html string, opts ExtractOptions) (*Document, error) {
	return Extract(strings.NewReader(html), opts)
}

// extractText renders block elements in document order. List items keep a
// "N." or "-" marker so that text-level list detection still works.
func extractText(body *goquery.Selection) string {
	var b strings.Builder
	var prevList *goquery.Selection

	body.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (a <p> inside an <li>) are rendered by their ancestor.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		text := collapse(s.Text())
		if text == "" {
			return
		}

		if goquery.NodeName(s) == "li" {
			list := s.Parent()
			marker := "-"
			if goquery.NodeName(list) == "ol" {
				marker = fmt.Sprintf("%d.", s.PrevAllFiltered("li").Length()+1)
			}
			if prevList != nil && list.IsSelection(prevList) {
				b.WriteString("\n")
			} else if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(marker + " " + text)
			prevList = list
			return
		}

		prevList = nil
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	})

	if b.Len() == 0 {
		return collapse(body.Text())
	}
	return b.String()
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func countExternalLinks(body *goquery.Selection, baseURL string) int {
	var baseHost string
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			baseHost = strings.ToLower(u.Hostname())
		}
	}

	count := 0
	body.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return
		}
		if baseHost != "" && strings.EqualFold(u.Hostname(), baseHost) {
			return
		}
		count++
	})
	return count
}

// countSchemaBlocks counts JSON-LD blocks that parse, plus top-level
// microdata scopes. Unparseable JSON-LD is reported and skipped.
func countSchemaBlocks(dom *goquery.Document, onMalformed func(error)) int {
	count := 0
	dom.Find("script[type='application/ld+json']").Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			if onMalformed != nil {
				onMalformed(fmt.Errorf("%w: json-ld block %d: %v", ErrMalformedContent, i, err))
			}
			return
		}
		switch data.(type) {
		case map[string]any, []any:
			count++
		}
	})

	dom.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("[itemscope]").Length() == 0 {
			count++
		}
	})
	return count
}
