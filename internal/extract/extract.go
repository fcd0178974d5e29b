// Package extract recovers plain text from an uploaded document, bounded to
// a fixed maximum page count. Pages are delimited by form feeds, the
// convention used by text renderings of paginated documents.
package extract

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDocument means no text was recoverable from the upload.
var ErrEmptyDocument = errors.New("document appears to be empty or contains no extractable text")

// Document extracts text from raw document bytes, keeping at most maxPages
// pages.
func Document(data []byte, maxPages int) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if !utf8.Valid(data) {
		// Binary upload the extractor does not understand.
		return "", ErrEmptyDocument
	}

	pages := strings.Split(string(data), "\f")
	if maxPages > 0 && len(pages) > maxPages {
		log.Printf("extract: document has %d pages, keeping first %d", len(pages), maxPages)
		pages = pages[:maxPages]
	}

	combined := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if combined == "" {
		return "", ErrEmptyDocument
	}
	return combined, nil
}
