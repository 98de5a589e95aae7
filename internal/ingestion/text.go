package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxChars is the default cap, in characters, on analysis input.
const DefaultMaxChars = 6000

// MinChars is the minimum length of usable resume text. Shorter extractions
// usually come from image-only PDFs.
const MinChars = 50

var (
	spaceRun     = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
	bulletPrefix = regexp.MustCompile(`^(?:[•·▪‣◦●]\s*|[-*]\s+)`)
)

// CleanText strips control characters, normalizes line endings, collapses
// runs of spaces and limits blank lines to one between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = StripControl(content)

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses whitespace and normalizes bullet glyphs to "- ".
func cleanLine(line string) string {
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	if loc := bulletPrefix.FindStringIndex(line); loc != nil && loc[1] < len(line) {
		return "- " + line[loc[1]:]
	}
	return line
}

// StripControl removes non-printable characters. Newlines are kept and tabs
// become spaces.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r == unicode.ReplacementChar:
			return -1
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), unicode.Is(unicode.Co, r):
			return -1
		case !unicode.IsPrint(r) && !unicode.IsSpace(r):
			return -1
		}
		return r
	}, s)
}

// Truncate shortens text to at most maxChars characters. The cut is made at
// the last sentence end inside the final quarter of the window, else at the
// last line or clause break there, else at the last word break, and only
// mid-word when the window holds a single word. maxChars <= 0 disables it.
func Truncate(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text, false
	}

	floor := maxChars * 3 / 4

	// runes[i+1] always exists because len(runes) > maxChars.
	for i := maxChars - 1; i >= floor; i-- {
		if isSentenceEnd(runes[i]) && unicode.IsSpace(runes[i+1]) {
			return strings.TrimSpace(string(runes[:i+1])), true
		}
	}

	for i := maxChars; i >= floor && i > 0; i-- {
		if runes[i] == '\n' {
			return strings.TrimSpace(string(runes[:i])), true
		}
		if isClauseEnd(runes[i-1]) && unicode.IsSpace(runes[i]) {
			return strings.TrimSpace(string(runes[:i])), true
		}
	}

	for i := maxChars; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return strings.TrimSpace(string(runes[:i])), true
		}
	}

	return string(runes[:maxChars]), true
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClauseEnd(r rune) bool {
	return r == ';' || r == ',' || r == ':'
}

// Flatten joins the words of cleaned text with single spaces. The result holds
// no line breaks or other control characters.
func Flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeJobText cleans job description text, truncates it and flattens it
// to one line. No structure is parsed out of it.
func NormalizeJobText(text string, maxChars int) (string, bool, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return "", false, &EmptyTextError{Field: "job description"}
	}
	out, truncated := Truncate(cleaned, maxChars)
	return Flatten(out), truncated, nil
}
