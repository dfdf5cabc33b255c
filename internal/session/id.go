package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewID returns an identifier for one run of the client, sent as X-Session-ID.
func NewID(now time.Time) string {
	timestamp := now.UTC().Format("20060102-150405")
	randomBytes := make([]byte, 3)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp + "-" + now.Format("000000")
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
