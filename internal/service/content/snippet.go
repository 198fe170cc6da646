package content

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	snippetMaxLength = 200
	snippetWindow    = 60
	ellipsis         = "..."
)

var markupPunctuation = regexp.MustCompile("[#*_`>\\[\\]]")

// BuildSnippet cuts a display excerpt from body around the first
// case-insensitive occurrence of query. Lengths count runes.
func BuildSnippet(body, query string) string {
	cleaned := strings.Join(strings.Fields(markupPunctuation.ReplaceAllString(body, " ")), " ")
	if utf8.RuneCountInString(cleaned) <= snippetMaxLength {
		return cleaned
	}

	text := []rune(cleaned)
	needle := []rune(strings.TrimSpace(query))
	at := indexFold(text, needle)
	if at < 0 {
		return strings.TrimSpace(string(text[:snippetMaxLength])) + ellipsis
	}

	start := at - snippetWindow
	if start < 0 {
		start = 0
	}
	end := at + len(needle) + snippetWindow
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(string(text[start:end])) + ellipsis
}

// indexFold returns the rune offset of the first case-insensitive match of
// needle in text, or -1
func indexFold(text, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(text) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(text); i++ {
		for j, r := range needle {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return i
	}
	return -1
}
