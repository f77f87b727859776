// Package ingestion turns uploaded resume documents into cleaned plain text.
package ingestion

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format is a supported document format
type Format string

// Supported formats
const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatImage Format = "image"
	FormatHTML  Format = "html"
	FormatText  Format = "txt"
)

var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".tif":  FormatImage,
	".tiff": FormatImage,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
}

var mimeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"image/png":  FormatImage,
	"image/jpeg": FormatImage,
	"image/tiff": FormatImage,
	"text/html":  FormatHTML,
	"text/plain": FormatText,
}

// Document is an uploaded file held in memory until its text is extracted
type Document struct {
	Filename string
	Format   Format
	Data     []byte
}

// NewDocument creates a document, detecting its format from the filename
// extension and then the MIME type.
func NewDocument(filename, mimeType string, data []byte) (*Document, error) {
	format, err := DetectFormat(filename, mimeType)
	if err != nil {
		return nil, err
	}
	return &Document{Filename: filename, Format: format, Data: data}, nil
}

// DetectFormat resolves the document format from the extension, falling back to the MIME type
func DetectFormat(filename, mimeType string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	if mimeType != "" {
		if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
			if f, ok := mimeFormats[strings.ToLower(mediaType)]; ok {
				return f, nil
			}
		}
	}
	if ext == "" {
		ext = mimeType
	}
	return "", &ExtractionError{Message: "unsupported file format: " + ext}
}
