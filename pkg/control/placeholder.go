package control

import "regexp"

// placeholderRe matches ~name~ tokens in paths and directive values.
var placeholderRe = regexp.MustCompile(`~([A-Za-z0-9_]+)~`)

// SubstitutePlaceholders replaces every ~name~ token whose name is
// present in values. Tokens without a mapped value are left verbatim;
// whether that is an error is a policy decision made elsewhere
// (ValidatePlaceholders).
func SubstitutePlaceholders(s string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// FindPlaceholders returns the placeholder names (without tildes)
// present in s, in order of first appearance.
func FindPlaceholders(s string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
