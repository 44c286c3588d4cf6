// Package symbol handles instrument code canonicalization. Every table key and
// comparison in the application uses the canonical form produced by Normalize.
package symbol

import (
	"fmt"
	"strings"
)

// DomesticSuffix is the exchange suffix applied to bare domestic codes.
const DomesticSuffix = ".T"

// Normalize converts a raw user-entered code into its canonical form.
//
// The raw value is trimmed and upper-cased. Codes that already carry a
// dot-separated exchange suffix pass through unchanged. Bare tokens of up to
// five characters are assumed to be domestic (Tokyo) codes and get the ".T"
// suffix; anything longer is assumed to be an already-qualified foreign ticker.
//
// Normalize is total and idempotent: it never fails, and normalizing an
// already-canonical code is a no-op.
func Normalize(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(code, ".") {
		return code
	}
	if len(code) <= 5 {
		return code + DomesticSuffix
	}
	return code
}

// Bare strips the domestic exchange suffix, returning the raw exchange code.
func Bare(code string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(code), DomesticSuffix))
}

// ZeroPad left-pads a bare numeric code to the given width. The name master is
// keyed by zero-padded codes, so "61" becomes "0061" at width 4. Non-numeric
// and already-wide codes are returned unchanged.
func ZeroPad(code string, width int) string {
	bare := Bare(code)
	if len(bare) >= width {
		return bare
	}
	for _, r := range bare {
		if r < '0' || r > '9' {
			return bare
		}
	}
	return strings.Repeat("0", width-len(bare)) + bare
}

// ResearchLinks returns the IR research URLs for a domestic code.
func ResearchLinks(code string) (irSearcher, irBank string) {
	bare := Bare(code)
	irSearcher = fmt.Sprintf("https://ir-searcher.com/kobetsu.php?code=%s", bare)
	irBank = fmt.Sprintf("https://irbank.net/%s", bare)
	return irSearcher, irBank
}

// NormalizeTags collapses a free-text tag string into single-space-separated
// tokens. Full-width spaces are treated as separators.
func NormalizeTags(tags string) string {
	cleaned := strings.ReplaceAll(tags, "　", " ")
	return strings.Join(strings.Fields(cleaned), " ")
}
