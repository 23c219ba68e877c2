package monitor

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	newlineRuns = regexp.MustCompile(`(?:[ \t]*\n)+[ \t]*`)
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
)

// Normalize canonicalizes page text for fingerprinting: runs of blank lines
// collapse to a single newline, runs of spaces and tabs collapse to a single
// space, and leading/trailing whitespace is trimmed.
func Normalize(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = newlineRuns.ReplaceAllString(s, "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fingerprint returns the hex-encoded SHA-256 of the normalized text.
// Texts that differ only in whitespace repetition share a fingerprint.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
