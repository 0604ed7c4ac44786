// Package resume extracts plain text from uploaded resume PDFs so the
// mentor and interviewer prompts can reference the candidate's background.
package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes bounds accepted uploads. Larger files are rejected before
// parsing.
const MaxUploadBytes = 5 << 20

// ErrEmptyDocument means the PDF parsed but yielded no extractable text,
// which usually indicates a scanned image resume.
var ErrEmptyDocument = fmt.Errorf("no extractable text in document")

// ExtractText parses the PDF bytes and returns the concatenated page text.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("upload exceeds %d bytes", MaxUploadBytes)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not invalidate the rest.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyDocument
	}
	return out, nil
}
