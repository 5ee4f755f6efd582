package note

import "strings"

// CountWords returns the number of whitespace-delimited tokens in the
// trimmed concatenation of title and body. Empty trimmed content counts
// as zero words, never one.
func CountWords(title, body string) int {
	return len(strings.Fields(strings.TrimSpace(title + " " + body)))
}
