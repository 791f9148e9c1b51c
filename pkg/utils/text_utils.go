package utils

import (
	"regexp"
	"strings"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes every tag matching <[^>]*>
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// NonBlank drops empty or whitespace-only entries, keeping order
func NonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
