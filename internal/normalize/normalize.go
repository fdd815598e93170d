// Package normalize canonicalizes the heterogeneous identifiers that the
// POS and tracking systems use for the same equipment ("1234", "1234.0",
// " 1234 "), so that keys from both sides can be compared directly.
package normalize

import (
	"regexp"
	"strings"
)

var (
	serialMarkerRe = regexp.MustCompile(`#\d+$`)
	storeSlotRe    = regexp.MustCompile(`-[1-4]$`)
	fullTagRe      = regexp.MustCompile(`^[0-9A-Fa-f]{24}$`)
)

// Key returns the canonical string form of an identifier. It strips
// surrounding whitespace and drops a fractional suffix that represents
// zero (the POS export renders integer keys as floats). Empty and
// null-ish values collapse to "" which propagates as a non-match, never
// as a wildcard. Key is total and idempotent.
func Key(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "null", "none", "nan":
		return ""
	}
	if i := strings.IndexByte(s, '.'); i > 0 {
		if isDigits(s[:i]) && isZeros(s[i+1:]) {
			s = s[:i]
		}
	}
	return s
}

// HasSerialMarker reports whether a POS key field ends in a serial
// marker ("#<digits>"), the pattern used for sticker-serialized stock.
func HasSerialMarker(key string) bool {
	return serialMarkerRe.MatchString(strings.TrimSpace(key))
}

// HasStoreSlot reports whether a POS key field ends in a store-slot
// marker ("-1".."-4"), the pattern used for bulk stock split per store.
func HasStoreSlot(key string) bool {
	return storeSlotRe.MatchString(strings.TrimSpace(key))
}

// IsFullTag reports whether a tag identifier is a full-length RFID EPC
// (24 hex characters). Shorter ad hoc identifiers come from sticker or
// bulk stock and do not count as individual RFID tracking.
func IsFullTag(tag string) bool {
	return fullTagRe.MatchString(strings.TrimSpace(tag))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isZeros(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}
