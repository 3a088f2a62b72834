package core

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectContentType sniffs the media type of data from its leading bytes.
// The returned value is the bare media type with any parameters stripped,
// e.g. "text/plain" rather than "text/plain; charset=utf-8", so it can be
// compared against parser-registry keys as an exact string. Content matching
// no known signature comes back as "application/octet-stream".
func DetectContentType(data []byte) string {
	mtype := mimetype.Detect(data)
	media, _, _ := strings.Cut(mtype.String(), ";")
	return strings.TrimSpace(media)
}
