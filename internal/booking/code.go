package booking

import (
	"math/rand"
	"strconv"
	"time"
)

// codePrefix is the literal prefix of every human-facing booking code.
const codePrefix = "BK"

// codeDigits is the number of digits following the prefix.
const codeDigits = 10

// NewCode builds a booking code of the form "BK" + 10 digits, derived
// from the millisecond timestamp plus a random 3-digit suffix.  Codes
// are not guaranteed unique here; the store enforces uniqueness and the
// engine retries with a fresh code on collision.
func NewCode(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	suffix := strconv.Itoa(rand.Intn(1000))
	for len(suffix) < 3 {
		suffix = "0" + suffix
	}
	digits := ts + suffix
	return codePrefix + digits[len(digits)-codeDigits:]
}
