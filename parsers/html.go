package parsers

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/draycott/ingestkit/core"
)

// HTMLParser extracts the visible text of an HTML page as a single document.
// Script and style elements are dropped; the page title, when present, is
// carried in metadata.
type HTMLParser struct{}

// NewHTMLParser creates an HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

func (p *HTMLParser) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		page, err := goquery.NewDocumentFromReader(blob.Reader())
		if err != nil {
			yield(core.Document{}, fmt.Errorf("parsing html: %w", err))
			return
		}

		title := strings.TrimSpace(page.Find("title").First().Text())
		page.Find("script, style").Remove()

		text := page.Find("body").Text()
		if text == "" {
			text = page.Text()
		}

		doc := core.NewDocument(strings.TrimSpace(text), nil)
		if title != "" {
			doc.Metadata[core.MetadataKeyTitle] = title
		}
		if name := blob.Filename(); name != "" {
			doc.Metadata[core.MetadataKeySource] = name
		}
		yield(doc, nil)
	}
}

var _ Parser = (*HTMLParser)(nil)
