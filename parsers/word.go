package parsers

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"os/exec"
	"strings"

	"code.sajari.com/docconv"

	"github.com/draycott/ingestkit/core"
)

var zipMagic = []byte("PK\x03\x04")

// WordParser extracts text from Word documents. OOXML (.docx) payloads are
// converted in-process; legacy binary .doc payloads go through the external
// wvText tool, so their conversion fails with ErrWordToolMissing on hosts
// where that tool is not installed.
type WordParser struct{}

// NewWordParser creates a WordParser.
func NewWordParser() *WordParser {
	return &WordParser{}
}

// Parse yields a single document with the converted text. The OOXML path is
// chosen for the OOXML mime type or any zip-container payload; everything
// else is treated as legacy .doc.
func (p *WordParser) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		var (
			text string
			meta map[string]string
			err  error
		)

		if blob.MimeType() == MimeTypeWordOOXML || bytes.HasPrefix(blob.Bytes(), zipMagic) {
			text, meta, err = docconv.ConvertDocx(blob.Reader())
		} else {
			if _, lookErr := exec.LookPath("wvText"); lookErr != nil {
				yield(core.Document{}, fmt.Errorf("%w: %v", ErrWordToolMissing, lookErr))
				return
			}
			text, meta, err = docconv.ConvertDoc(blob.Reader())
		}
		if err != nil {
			yield(core.Document{}, fmt.Errorf("converting word document: %w", err))
			return
		}

		doc := core.NewDocument(strings.TrimSpace(text), nil)
		for k, v := range meta {
			if v != "" {
				doc.Metadata[k] = v
			}
		}
		if name := blob.Filename(); name != "" {
			doc.Metadata[core.MetadataKeySource] = name
		}
		yield(doc, nil)
	}
}

var _ Parser = (*WordParser)(nil)
