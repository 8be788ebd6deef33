// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/hzhang91/docchat/domain"
)

// Extension returns the lower-cased filename extension without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// Text extracts UTF-8 text from the uploaded bytes based on the declared
// filename extension. Unsupported extensions and extraction failures surface
// as *domain.ValidationError.
func Text(data []byte, filename string) (string, error) {
	switch Extension(filename) {
	case "txt":
		return fromTXT(data)
	case "pdf":
		return fromPDF(data)
	default:
		return "", &domain.ValidationError{Reason: "Unsupported file type."}
	}
}

func fromTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &domain.ValidationError{Reason: "Failed to extract text from TXT file"}
	}
	return string(data), nil
}

// fromPDF concatenates per-page plain text. Pages that fail to yield text
// are skipped rather than failing the whole document.
func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &domain.ValidationError{Reason: "Failed to extract text from PDF"}
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String()), nil
}

// Truncate cuts text to at most maxChars characters. Truncation is by
// character count, not tokens.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
