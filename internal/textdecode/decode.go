// Package textdecode cleans up free-text fields from the upstream directory
// feed, which ships HTML-entity encoded (sometimes doubly so) and
// unicode-escaped strings.
package textdecode

import (
	"regexp"
	"strconv"
	"strings"
)

var namedEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#039;": "'",
	"&apos;": "'",
	"&nbsp;": " ",
}

var (
	entityRe  = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
	numericRe = regexp.MustCompile(`&#(\d+);`)
	unicodeRe = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
)

// Decode resolves HTML entities and \uXXXX escapes in s. Named entities are
// substituted iteratively until a fixpoint so double-encoded text such as
// "&amp;amp;" fully unwraps, then numeric character references and unicode
// escapes are decoded in a single pass each.
func Decode(s string) string {
	if s == "" {
		return ""
	}

	decoded := s
	for {
		prev := decoded
		decoded = entityRe.ReplaceAllStringFunc(prev, func(entity string) string {
			if repl, ok := namedEntities[entity]; ok {
				return repl
			}
			return entity
		})
		if decoded == prev {
			break
		}
	}

	decoded = numericRe.ReplaceAllStringFunc(decoded, func(ref string) string {
		digits := strings.TrimSuffix(strings.TrimPrefix(ref, "&#"), ";")
		code, err := strconv.Atoi(digits)
		if err != nil {
			return ref
		}
		return string(rune(code))
	})

	decoded = unicodeRe.ReplaceAllStringFunc(decoded, func(esc string) string {
		code, err := strconv.ParseInt(esc[2:], 16, 32)
		if err != nil {
			return esc
		}
		return string(rune(code))
	})

	return decoded
}
