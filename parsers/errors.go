package parsers

import "errors"

var (
	// ErrUnsupportedType indicates that no parser is registered for the
	// blob's mime type and no fallback is configured.
	ErrUnsupportedType = errors.New("no parser registered for mime type")

	// ErrNotPlainText indicates that a payload routed to the text parser is
	// not valid UTF-8.
	ErrNotPlainText = errors.New("payload is not valid UTF-8 text")

	// ErrWordToolMissing indicates that legacy .doc conversion was requested
	// but the external wvText tool is not installed on this host.
	ErrWordToolMissing = errors.New("legacy .doc conversion requires wvText on PATH")
)
