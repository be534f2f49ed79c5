// Package extract pulls analyzable text out of uploaded report files.
// Plain text passes through; OCR and PDF parsing are not bundled, so
// image and PDF uploads surface sentinel errors the caller can map to
// user-facing messages.
package extract

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type, send text or image files")
	ErrPDFNotEnabled   = errors.New("pdf parsing not enabled, convert the report to text or image")
	ErrOCRUnavailable  = errors.New("ocr is not available")
	ErrNoText          = errors.New("no text could be extracted from the file")
)

// Text extracts plain text from an uploaded file. Only text files are
// readable without OCR support.
func Text(fileName, contentType string, data []byte) (string, error) {
	name := strings.ToLower(fileName)
	switch {
	case strings.HasPrefix(contentType, "text/") || strings.HasSuffix(name, ".txt"):
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return "", ErrNoText
		}
		return text, nil
	case strings.HasPrefix(contentType, "image/") ||
		strings.HasSuffix(name, ".png") || strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg"):
		return "", ErrOCRUnavailable
	case strings.HasSuffix(name, ".pdf"):
		return "", ErrPDFNotEnabled
	default:
		return "", ErrUnsupportedType
	}
}
