package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// New returns a fresh prefixed identifier. Uniqueness is the only contract;
// ordering is not guaranteed across rapid calls.
func New(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}

// OrderID returns a short customer-facing order identifier of the form
// <shortcode>-<6 trailing digits of the current millisecond timestamp>.
func OrderID(shortcode string) string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return shortcode + "-" + millis
}
