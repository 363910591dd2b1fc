// Package extract turns uploaded document bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/cloo-solutions/docqa/internal/domain"
)

// Format is a supported document container.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

var extensions = map[string]Format{
	".pdf":      FormatPDF,
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// DetectFormat maps a filename to its format by extension.
func DetectFormat(filename string) (Format, error) {
	f, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", domain.ErrUnsupportedFormat
	}
	return f, nil
}

// SupportedExtensions lists accepted filename extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".md", ".markdown"}
}

// ContentType returns the MIME type stored alongside the raw file.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Text extracts plain text from data according to filename's extension.
func Text(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatPDF:
		return pdfText(data)
	default:
		if !utf8.Valid(data) {
			return strings.ToValidUTF8(string(data), "�"), nil
		}
		return string(data), nil
	}
}

func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = unreadable(fmt.Errorf("pdf: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", unreadable(err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", unreadable(err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", unreadable(err)
	}
	return buf.String(), nil
}

func unreadable(err error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "could not read PDF document", err)
}
