package parsers

import (
	"bytes"
	"context"
	"fmt"
	"iter"

	"github.com/ledongthuc/pdf"

	"github.com/draycott/ingestkit/core"
)

// PDFParser extracts text from PDF payloads, yielding one document per page
// with page-number metadata so chunk provenance survives splitting.
type PDFParser struct{}

// NewPDFParser creates a PDFParser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse lazily walks the pages of the PDF. Pages are extracted as they are
// pulled, so large documents never hold more than one page of text at a
// time.
func (p *PDFParser) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		reader, err := pdf.NewReader(bytes.NewReader(blob.Bytes()), blob.Size())
		if err != nil {
			yield(core.Document{}, fmt.Errorf("opening pdf: %w", err))
			return
		}

		total := reader.NumPage()
		for i := 1; i <= total; i++ {
			if err := ctx.Err(); err != nil {
				yield(core.Document{}, err)
				return
			}

			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				yield(core.Document{}, fmt.Errorf("extracting text from page %d: %w", i, err))
				return
			}

			doc := core.NewDocument(text, map[string]any{
				core.MetadataKeyPage:       i,
				core.MetadataKeyTotalPages: total,
			})
			if name := blob.Filename(); name != "" {
				doc.Metadata[core.MetadataKeySource] = name
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

var _ Parser = (*PDFParser)(nil)
