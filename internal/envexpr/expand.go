// Package envexpr expands ${env.KEY} expressions in configuration text.
package envexpr

import (
	"os"
	"strings"
	"unicode"
)

const prefix = "${env."

// Expand replaces every ${env.KEY} occurrence with the value of KEY, or an
// empty string when unset. An unterminated expression is kept verbatim.
func Expand(value string) string {
	return ExpandWith(value, os.Getenv)
}

// ExpandWith expands expressions using the supplied lookup.
func ExpandWith(value string, lookup func(key string) string) string {
	if !strings.Contains(value, prefix) {
		return value
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		start := i + idx + len(prefix)
		end := strings.IndexByte(value[start:], '}')
		if end < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[start : start+end]
		if !validKey(key) {
			// emit the prefix and rescan the rest so nested expressions still expand
			b.WriteString(value[i+idx : start])
			i = start
			continue
		}
		b.WriteString(lookup(key))
		i = start + end + 1
	}
	return b.String()
}

func validKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
