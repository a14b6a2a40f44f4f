package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes where a job description came from
type Metadata struct {
	URL       string   `json:"url,omitempty"`
	Timestamp string   `json:"timestamp"`          // RFC3339 format
	Hash      string   `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform  Platform `json:"platform,omitempty"` // Detected job board platform
	Rendered  bool     `json:"rendered,omitempty"` // Content came from the headless browser
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
