package monitor

import "testing"

func TestNormalize(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  hello  ", "hello"},
		{"collapses spaces", "a    b\t\tc", "a b c"},
		{"collapses blank lines", "a\n\n\n\nb", "a\nb"},
		{"blank lines with trailing spaces", "a  \n   \n  b", "a\nb"},
		{"windows newlines", "a\r\n\r\nb", "a\nb"},
		{"empty", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFingerprint_WhitespaceInvariant(t *testing.T) {
	a := "Terms of Service\n\nSection 1.   Liability is capped."
	b := "Terms of Service\n\n\n\nSection 1. Liability is capped.  "
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprints differ for whitespace-only variation")
	}
}

func TestFingerprint_DetectsTextualChange(t *testing.T) {
	a := "Liability is capped at 12 months of fees."
	b := "Liability is capped at 6 months of fees."
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("fingerprints match for different text")
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	text := "Privacy Policy effective 2024"
	if Fingerprint(text) != Fingerprint(text) {
		t.Error("fingerprint is not deterministic")
	}
	if len(Fingerprint(text)) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(Fingerprint(text)))
	}
}
