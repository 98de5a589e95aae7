package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes where normalized text came from.
type Metadata struct {
	// Source is the uploaded file name or the job posting URL.
	Source      string    `json:"source,omitempty"`
	Platform    string    `json:"platform,omitempty"` // detected job board
	Format      Format    `json:"format"`
	Pages       int       `json:"pages,omitempty"`
	Characters  int       `json:"characters"`
	Truncated   bool      `json:"truncated,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
	SHA256      string    `json:"sha256"` // digest of the normalized text
}

// NewMetadata describes normalized text taken from source.
func NewMetadata(text, source string, format Format) *Metadata {
	return &Metadata{
		Source:      source,
		Format:      format,
		Characters:  utf8.RuneCountInString(text),
		ExtractedAt: time.Now().UTC(),
		SHA256:      digest(text),
	}
}

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
