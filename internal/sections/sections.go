// Package sections extracts named XML-like tag contents from free-form LLM
// responses. The models are prompted to wrap each part of their answer in
// tags such as <title>...</title>; real responses frequently deviate, so
// every lookup degrades to a placeholder instead of failing.
package sections

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patternMu sync.Mutex
	patterns  = map[string]*regexp.Regexp{}

	fencedPatterns = map[string]*regexp.Regexp{}
)

// tagPattern returns a compiled pattern matching <key>...</key> with a
// non-greedy, case-insensitive, dot-matches-newline inner group. Patterns
// are cached per key since the tag sets are small and fixed.
func tagPattern(key string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(key) + `>(.*?)</` + regexp.QuoteMeta(key) + `>`)
	patterns[key] = re
	return re
}

func fencedPattern(lang string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := fencedPatterns[lang]; ok {
		return re
	}
	re := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(lang) + `\s*(.*?)\s*` + "```")
	fencedPatterns[lang] = re
	return re
}

// Missing returns the placeholder stored for a tag that was not found.
func Missing(key string) string {
	return "<" + key + "> section not found or format error."
}

// Extract searches text for each named tag independently and returns the
// trimmed inner contents keyed by tag name. A tag that is absent or
// malformed maps to Missing(key). Empty input yields an empty map.
func Extract(text string, keys []string) map[string]string {
	if text == "" {
		return map[string]string{}
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		m := tagPattern(key).FindStringSubmatch(text)
		if m == nil {
			out[key] = Missing(key)
			continue
		}
		out[key] = strings.TrimSpace(m[1])
	}
	return out
}

// FencedBlock returns the inner content of the first fenced code block
// opened with ```lang (lang may be empty for a generic fence). When no
// fence markers are present the whole input is returned unchanged, since
// models sometimes emit the code bare.
func FencedBlock(text, lang string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	m := fencedPattern(lang).FindStringSubmatch(text)
	if m == nil {
		return text
	}
	return strings.TrimSpace(m[1])
}
