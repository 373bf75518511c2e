package lyrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// badLinePrefixes marks lines that are page furniture rather than lyric
// text. "[" catches section markers like [Chorus] before the bracket
// stripper runs, so the whole line goes rather than leaving a blank.
var badLinePrefixes = []string{
	"Embed",
	"[",
	"You might also like",
	"See",
	"Contributors",
	"Translations",
	"Read More",
	"Lyrics",
	"Romanization",
}

// metadataIndicators flag lines that belong to the header block above the
// first verse, used when no "---" separator is present.
var metadataIndicators = []string{
	"Contributors", "Translations", "Lyrics", "Read More", "Released",
	"Romanization", "EP", "music video", "album", "single", "track", "Music",
}

var (
	parenPattern        = regexp.MustCompile(`\([^)]*\)`)
	bracketPattern      = regexp.MustCompile(`\[.*?\]`)
	contributorsPattern = regexp.MustCompile(`\d+ Contributors`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes a raw lyric blob: header stripped, background vocals
// and section markers removed, furniture lines dropped, blank runs
// collapsed, surrounding whitespace trimmed. Empty input yields "".
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	s := removeMetadataHeader(raw)
	s = removeBackgroundVocals(s)
	s = removeBadLines(s)

	s = bracketPattern.ReplaceAllString(s, "")
	s = contributorsPattern.ReplaceAllString(s, "")

	s = blankRunPattern.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// removeMetadataHeader drops the metadata block that precedes the first
// verse. A "---" separator wins when enough text follows it; otherwise the
// first blank line followed by a substantial non-metadata line marks the
// start of the lyrics. The cut is reverted when it would leave under 100
// characters of a blob that had more than 200.
func removeMetadataHeader(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "---") {
		parts := strings.SplitN(s, "---", 2)
		if len(parts) > 1 && utf8.RuneCountInString(parts[1]) > 100 {
			return strings.TrimSpace(parts[1])
		}
	}

	lines := strings.Split(s, "\n")

	start := 0
	for i := range lines {
		if strings.TrimSpace(lines[i]) != "" || i+1 >= len(lines) {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(lines[i+1])) <= 5 {
			continue
		}
		if !containsAny(lines[i+1], metadataIndicators) {
			start = i + 1
			break
		}
	}

	if start > 0 {
		cleaned := strings.Join(lines[start:], "\n")
		if utf8.RuneCountInString(cleaned) < 100 && utf8.RuneCountInString(s) > 200 {
			return s
		}
		return cleaned
	}

	return s
}

// removeBackgroundVocals strips parenthesized asides. The newline squeeze
// only fires when the blob already has paragraph breaks.
func removeBackgroundVocals(s string) string {
	s = parenPattern.ReplaceAllString(s, "")
	if strings.Contains(s, "\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

func removeBadLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !hasAnyPrefix(line, badLinePrefixes) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
