package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Metadata describes an ingested resume document
type Metadata struct {
	Filename   string `json:"filename,omitempty"`
	Format     Format `json:"format"`
	Timestamp  string `json:"timestamp"`  // RFC3339 format
	Hash       string `json:"hash"`       // SHA256 hex digest of the source bytes
	Size       int    `json:"size"`       // source bytes
	Characters int    `json:"characters"` // runes of cleaned text
}

// NewMetadata creates metadata for doc and its extracted text with the current timestamp
func NewMetadata(doc *Document, text string) *Metadata {
	return &Metadata{
		Filename:   doc.Filename,
		Format:     doc.Format,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(doc.Data),
		Size:       len(doc.Data),
		Characters: utf8.RuneCountInString(text),
	}
}

func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
