package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

func GenerateCode(n int) (string, error) {
	// Make a slice of nBytes random bytes.
	byt := make([]byte, n)

	// Read into the slice.
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	// Return the hexadecimal string.
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// NewReferenceCode builds the scannable code printed on a ticket: a base36
// timestamp followed by a random suffix, e.g. TKT-LXQ4Z1B2-9F3A07C1.
func NewReferenceCode(now time.Time) (string, error) {
	suffix, err := GenerateCode(4)
	if err != nil {
		return "", err
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "TKT-" + stamp + "-" + suffix, nil
}

// NewCardToken returns the opaque token stored in place of a card number.
func NewCardToken() (string, error) {
	code, err := GenerateCode(12)
	if err != nil {
		return "", err
	}
	return "tok_" + strings.ToLower(code), nil
}
