package control

import (
	"regexp"
	"strings"
)

// Token is one whitespace/comma/semicolon-delimited value token with
// its optional "| layer" sub-selector already split off.
type Token struct {
	Text  string
	Layer string
}

var (
	numericRe         = regexp.MustCompile(`^[-+]?\d*\.?\d+(?:[Ee][-+]?\d+)?$`)
	numericWithUnitRe = regexp.MustCompile(`^[-+]?\d*\.?\d+(?:[Ee][-+]?\d+)?[A-Za-z]+$`)
	driveRe           = regexp.MustCompile(`^[A-Za-z]:[/\\]`)
	splitRe           = regexp.MustCompile(`[\s,;]+`)
)

// booleanFlags are directive values that are switches, never files.
var booleanFlags = map[string]bool{
	"on": true, "off": true,
	"true": true, "false": true,
	"yes": true, "no": true,
}

// ClassifyToken decides whether a raw token is a candidate file path.
// It is the false-positive firewall for the whole pipeline: every
// downstream file reference passes through here first. When the token
// is rejected the reason explains why, for the scan audit log.
func (r *Registry) ClassifyToken(text string) (ok bool, reason string) {
	cleaned := StripQuotes(strings.TrimSpace(StripInlineComment(text)))

	if idx := strings.Index(cleaned, "|"); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}

	if cleaned == "" {
		return false, "empty token"
	}
	if booleanFlags[strings.ToLower(cleaned)] {
		return false, "boolean flag"
	}
	if numericRe.MatchString(cleaned) {
		return false, "pure number"
	}
	if numericWithUnitRe.MatchString(cleaned) {
		return false, "numeric with unit"
	}

	hasPathSep := strings.ContainsAny(cleaned, `/\`)
	hasDrive := strings.HasPrefix(cleaned, `\\`) || driveRe.MatchString(cleaned)

	if hasPathSep || hasDrive || r.HasKnownExt(cleaned) {
		return true, ""
	}
	return false, "no recognised path pattern or extension"
}

// LooksLikeFilePath reports whether the token would be accepted as a
// file path candidate against the default tables.
func LooksLikeFilePath(text string) bool {
	ok, _ := defaultTokenRegistry.ClassifyToken(text)
	return ok
}

var defaultTokenRegistry = DefaultRegistry()

// TokenizeValue splits a directive value into tokens, honouring the
// three "file | layer" spellings the format allows: attached
// ("file.gpkg|layer"), detached ("file.gpkg | layer") and half-attached
// ("file.gpkg |layer").
func TokenizeValue(value string) []Token {
	var fields []string
	for _, f := range splitRe.Split(value, -1) {
		if f != "" {
			fields = append(fields, f)
		}
	}

	var tokens []Token
	for i := 0; i < len(fields); {
		tok := fields[i]
		layer := ""

		switch {
		case strings.Contains(tok, "|") && tok != "|":
			parts := strings.SplitN(tok, "|", 2)
			tok = parts[0]
			layer = StripQuotes(strings.TrimSpace(parts[1]))
			i++
		case i+1 < len(fields) && fields[i+1] == "|":
			if i+2 < len(fields) {
				layer = StripQuotes(strings.TrimSpace(fields[i+2]))
				i += 3
			} else {
				i += 2
			}
		case i+1 < len(fields) && strings.HasPrefix(fields[i+1], "|"):
			layer = StripQuotes(strings.TrimSpace(fields[i+1][1:]))
			i += 2
		default:
			i++
		}

		if cleaned := StripQuotes(strings.TrimSpace(tok)); cleaned != "" {
			tokens = append(tokens, Token{Text: cleaned, Layer: layer})
		}
	}

	return tokens
}
