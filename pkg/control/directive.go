// Package control parses the line-oriented control-file directive
// format and resolves the include graph rooted at a model's main
// configuration file.
//
// The parser deliberately recognises only "keyword == value" lines.
// Conditionals, block markers and everything else the host language
// supports are skipped: graph resolution and input discovery do not
// need a full grammar.
package control

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Directive is one parsed "keyword == value" configuration line.
// Directives are immutable; Line is the 1-based source line number and
// Raw preserves the original text including any stripped comment.
type Directive struct {
	Keyword string
	Value   string
	Line    int
	Raw     string
}

// ParsedFile is one control file's path plus its ordered directives.
type ParsedFile struct {
	Path       string
	Directives []Directive
}

var (
	// Full-line comments start with !, # or //.
	commentRe = regexp.MustCompile(`^\s*(!|#|//)`)
	// Inline comments start at the first !, //, # or ;.
	inlineCommentRe = regexp.MustCompile(`!|//|#|;`)
	// key then = or ==, then the rest of the line.
	directiveRe = regexp.MustCompile(`^\s*([^=!]+?)\s*={1,2}\s*(.+?)\s*$`)
)

// StripInlineComment removes any trailing comment from a line.
func StripInlineComment(line string) string {
	if loc := inlineCommentRe.FindStringIndex(line); loc != nil {
		return line[:loc[0]]
	}
	return line
}

// StripQuotes removes surrounding single and double quotes from a token.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.Trim(s, `'`)
}

// ParseText parses control-file text into directives. Lines that are
// blank, comments, or not in key==value form yield no directive.
func ParseText(path, text string) ParsedFile {
	pf := ParsedFile{Path: path}

	for i, rawLine := range strings.Split(text, "\n") {
		rawLine = strings.TrimSuffix(rawLine, "\r")
		line := strings.TrimSpace(StripInlineComment(rawLine))
		if line == "" || commentRe.MatchString(line) {
			continue
		}

		m := directiveRe.FindStringSubmatch(line)
		if m == nil {
			// IF / DEFINE / block markers are not directives.
			continue
		}

		pf.Directives = append(pf.Directives, Directive{
			Keyword: strings.TrimSpace(m[1]),
			Value:   strings.TrimSpace(m[2]),
			Line:    i + 1,
			Raw:     rawLine,
		})
	}

	return pf
}

// ParseFile reads and parses one control file. The read is the only
// failure mode; callers convert it to a CRITICAL issue and treat the
// file as a leaf.
func ParseFile(path string) (ParsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParsedFile{Path: path}, fmt.Errorf("read control file: %w", err)
	}
	return ParseText(path, string(data)), nil
}
