// Package pathmatch decides whether changed file paths match a workflow's
// glob-style trigger patterns.
//
// Matching intentionally follows the loose semantics the trigger
// configurations were written against: `*` matches any run of characters
// including path separators, so "src/*.tf" also matches
// "src/env/prod/main.tf". A `**` pattern additionally matches any path that
// begins with the literal prefix before the `**`. Tightening this to true
// per-segment globbing would silently change which workflows fire, so the
// loose behavior is kept on purpose.
package pathmatch

import (
	"regexp"
	"strings"
	"sync"
)

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

// Match reports whether filepath matches a single glob pattern. The empty
// file path never matches.
func Match(filepath, pattern string) bool {
	if filepath == "" {
		return false
	}

	if strings.Contains(pattern, "**") {
		// A recursive pattern matches if the collapsed single-star form
		// matches, or if the path sits anywhere under the literal prefix
		// preceding the `**`.
		collapsed := strings.ReplaceAll(pattern, "**", "*")
		if globMatch(filepath, collapsed) {
			return true
		}
		prefix := strings.SplitN(pattern, "**", 2)[0]
		if strings.HasPrefix(filepath, prefix) {
			return true
		}
	}

	return globMatch(filepath, pattern)
}

// MatchAny reports whether filepath matches any of the given patterns. An
// empty pattern list matches nothing.
func MatchAny(filepath string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(filepath, pattern) {
			return true
		}
	}
	return false
}

// globMatch matches a path against a glob pattern where `*` matches any run
// of characters (separators included), `?` matches a single character and
// `[...]` is a character class.
func globMatch(filepath, pattern string) bool {
	re := compile(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(filepath)
}

func compile(pattern string) *regexp.Regexp {
	regexMu.Lock()
	defer regexMu.Unlock()

	if re, ok := regexCache[pattern]; ok {
		return re
	}

	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		// A malformed character class. Treat the pattern as never matching
		// rather than failing the whole root computation.
		regexCache[pattern] = nil
		return nil
	}
	regexCache[pattern] = re
	return re
}

// translate converts a glob pattern into an anchored regular expression.
func translate(pattern string) string {
	var b strings.Builder
	b.WriteString(`\A`)

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i+1 : i+1+end]
			i += end + 1
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			}
			b.WriteString(escapeClass(class))
			b.WriteByte(']')
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`\z`)
	return b.String()
}

// escapeClass escapes characters that are special inside a regexp character
// class while leaving range dashes intact.
func escapeClass(class string) string {
	var b strings.Builder
	for i := 0; i < len(class); i++ {
		switch c := class[i]; c {
		case '\\', '^', ']':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
