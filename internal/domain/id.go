package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID generates a transaction identifier using the same
// timestamp-plus-random scheme the original clients used: the current
// unix milliseconds in base 36 followed by a short random suffix.
// IDs are opaque strings; uniqueness is global across categories.
func NewID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back
		// to a nanosecond suffix so ID generation never blocks a write.
		return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + strconv.FormatInt(time.Now().UnixNano()%1e6, 36)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}
