package utils

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed behind ReadingMinutes
const WordsPerMinute = 200

// CountWords counts the words of a markdown body, ignoring fenced code and
// inline markup
func CountWords(markdown string) int {
	return len(strings.FieldsFunc(cleanMarkdown(markdown), func(r rune) bool {
		return unicode.IsSpace(r) || r == '|'
	}))
}

// ReadingMinutes rounds up, so any non-empty text takes at least a minute
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

func cleanMarkdown(markdown string) string {
	text := removeCodeBlocks(markdown)

	// Emphasis, inline code and strikethrough markers
	text = strings.NewReplacer("`", "", "**", "", "__", "", "~~", "", "*", "", "_", "").Replace(text)

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "+ ") {
			line = line[2:]
		}
		if i := strings.Index(line, ". "); i > 0 && isDigits(line[:i]) {
			line = line[i+2:]
		}
		if line == "---" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			return text
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			return text
		}
		text = text[:start] + text[start+end+6:]
	}
}
