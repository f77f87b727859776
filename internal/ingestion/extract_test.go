package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		want     Format
		wantErr  bool
	}{
		{name: "pdf extension", filename: "resume.pdf", want: FormatPDF},
		{name: "upper case extension", filename: "RESUME.PDF", want: FormatPDF},
		{name: "docx extension", filename: "cv.docx", want: FormatDOCX},
		{name: "png extension", filename: "scan.png", want: FormatImage},
		{name: "jpeg extension", filename: "scan.jpeg", want: FormatImage},
		{name: "html extension", filename: "resume.htm", want: FormatHTML},
		{name: "txt extension", filename: "resume.txt", want: FormatText},
		{name: "mime fallback", filename: "upload", mimeType: "application/pdf", want: FormatPDF},
		{name: "mime with parameters", filename: "upload", mimeType: "text/plain; charset=utf-8", want: FormatText},
		{name: "unsupported extension", filename: "resume.doc", wantErr: true},
		{name: "unsupported mime", filename: "upload", mimeType: "application/zip", wantErr: true},
		{name: "nothing to go on", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.mimeType)
			if tt.wantErr {
				var extractionErr *ExtractionError
				require.ErrorAs(t, err, &extractionErr)
				assert.Contains(t, extractionErr.Error(), "unsupported file format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	doc, err := NewDocument("resume.txt", "", []byte("Jane   Smith\r\n\r\njane@example.com\n"))
	require.NoError(t, err)

	text, meta, err := NewExtractor(nil).Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith\njane@example.com", text)

	assert.Equal(t, "resume.txt", meta.Filename)
	assert.Equal(t, FormatText, meta.Format)
	assert.Len(t, meta.Hash, 64)
	assert.Equal(t, len(doc.Data), meta.Size)
	assert.Equal(t, 27, meta.Characters)
	assert.NotEmpty(t, meta.Timestamp)
}

func TestExtract_InvalidUTF8Text(t *testing.T) {
	doc := &Document{Filename: "resume.txt", Format: FormatText, Data: []byte{0xff, 0xfe, 'a'}}

	_, _, err := NewExtractor(nil).Extract(context.Background(), doc)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, FormatText, extractionErr.Format)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestExtract_HTML(t *testing.T) {
	page := `<html><head><title>ignored</title><style>p { color: red }</style></head>
<body><nav>Home | About</nav><h1>Jane Smith</h1><p>Data Scientist at <b>Google</b></p>
<ul><li>Python</li><li>SQL</li></ul><script>var x = 1;</script></body></html>`
	doc, err := NewDocument("resume.html", "", []byte(page))
	require.NoError(t, err)

	text, _, err := NewExtractor(nil).Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith\nData Scientist at Google\nPython\nSQL", text)
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Jane Smith</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Python &amp; SQL</w:t></w:r></w:p>`)
	doc, err := NewDocument("resume.docx", "", data)
	require.NoError(t, err)

	text, meta, err := NewExtractor(nil).Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith\nPython & SQL", text)
	assert.Equal(t, FormatDOCX, meta.Format)
}

func TestExtract_CorruptDocuments(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{name: "pdf", format: FormatPDF},
		{name: "docx", format: FormatDOCX},
		{name: "image", format: FormatImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Filename: "broken", Format: tt.format, Data: []byte("definitely not a real document")}

			_, _, err := NewExtractor(nil).Extract(context.Background(), doc)

			var extractionErr *ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, tt.format, extractionErr.Format)
			assert.Error(t, errors.Unwrap(err))
		})
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	doc := &Document{Filename: "resume.pdf", Format: FormatPDF}

	_, _, err := NewExtractor(nil).Extract(context.Background(), doc)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "document is empty", extractionErr.Message)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := &Document{Filename: "resume.txt", Format: FormatText, Data: []byte("text")}

	_, _, err := NewExtractor(nil).Extract(ctx, doc)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("John Doe\nSoftware Engineer"), 0o600))

	text, meta, err := NewExtractor(nil).ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "John Doe\nSoftware Engineer", text)
	assert.Equal(t, "resume.txt", meta.Filename)

	_, _, err = NewExtractor(nil).ExtractFile(context.Background(), filepath.Join(dir, "missing.txt"))
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)

	_, _, err = NewExtractor(nil).ExtractFile(context.Background(), filepath.Join(dir, "resume.rtf"))
	require.ErrorAs(t, err, &extractionErr)
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := NewMetadata(&Document{Filename: "a.txt", Format: FormatText, Data: []byte("abc")}, "abc")

	data, err := meta.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "txt"`)
	assert.Contains(t, string(data), `"hash": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"`)
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
