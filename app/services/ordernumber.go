package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// guestOrderNumberPrefix starts every guest order number.
const guestOrderNumberPrefix = "GUEST"

// GenerateGuestOrderNumber builds a customer-facing order number of the form
// GUEST-YYYYMMDD-XXXXXXXX: the UTC date of placement plus 8 uppercase hex
// characters from 4 random bytes. Collisions are possible in principle, so
// the orders table keeps a unique index and checkout retries on conflict.
func GenerateGuestOrderNumber(now time.Time) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("ordernumber: read random: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(b))
	return fmt.Sprintf("%s-%s-%s", guestOrderNumberPrefix, now.UTC().Format("20060102"), suffix), nil
}

// NormalizeGuestOrderNumber uppercases and trims a user-supplied order
// number so lookups match the stored form.
func NormalizeGuestOrderNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizePhone strips every non-digit character, so "010-1234-5678" and
// "010 1234 5678" compare equal to the stored form.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
