package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

// MaxDocumentSize bounds how many bytes ExtractFile reads from disk
const MaxDocumentSize = 10 << 20

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// Extractor converts documents to cleaned text
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil logger disables logging.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the cleaned text of doc together with its metadata.
// Failures are returned as *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, doc *Document) (string, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, &ExtractionError{Format: doc.Format, Message: "extraction cancelled", Cause: err}
	}
	if len(doc.Data) == 0 {
		return "", nil, &ExtractionError{Format: doc.Format, Message: "document is empty"}
	}

	var (
		raw string
		err error
	)
	switch doc.Format {
	case FormatPDF:
		raw, err = extractPDF(doc.Data)
	case FormatDOCX:
		raw, err = extractDOCX(doc.Data)
	case FormatImage:
		raw, err = extractImage(doc.Data, imageMimeType(doc.Filename))
	case FormatHTML:
		raw, err = extractHTML(doc.Data)
	case FormatText:
		raw, err = extractPlainText(doc.Data)
	default:
		return "", nil, &ExtractionError{Format: doc.Format, Message: "unsupported file format"}
	}
	if err != nil {
		return "", nil, &ExtractionError{Format: doc.Format, Message: "could not read " + displayName(doc), Cause: err}
	}

	text := CleanText(raw)
	meta := NewMetadata(doc, text)
	e.logger.Debug("extracted document text",
		zap.String("filename", doc.Filename),
		zap.String("format", string(doc.Format)),
		zap.Int("bytes", len(doc.Data)),
		zap.Int("chars", meta.Characters),
	)
	return text, meta, nil
}

// ExtractFile reads a document from disk and extracts its text
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, *Metadata, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return "", nil, err
	}
	return e.Extract(ctx, doc)
}

// ReadDocument loads a file into a Document, detecting its format from the extension
func ReadDocument(path string) (*Document, error) {
	name := filepath.Base(path)
	format, err := DetectFormat(name, "")
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Format: format, Message: "failed to stat " + name, Cause: err}
	}
	if info.Size() > MaxDocumentSize {
		return nil, &ExtractionError{Format: format, Message: fmt.Sprintf("%s exceeds %d bytes", name, MaxDocumentSize)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Format: format, Message: "failed to read " + name, Cause: err}
	}
	return &Document{Filename: name, Format: format, Data: data}, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

func extractImage(data []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return "", err
	}
	if res.Error != "" {
		return "", fmt.Errorf("ocr: %s", res.Error)
	}
	return res.Body, nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, script, style, noscript, head").Remove()

	// block elements start a new line so section boundaries survive
	doc.Find("p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article, header").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text is not valid UTF-8")
	}
	return string(data), nil
}

func imageMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}

func displayName(doc *Document) string {
	if doc.Filename == "" {
		return "document"
	}
	return doc.Filename
}
