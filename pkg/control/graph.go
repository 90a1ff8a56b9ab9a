package control

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// ControlGraph is the resolved include graph rooted at a model's main
// control file. Edges map parent to children; a file appears in
// AllFiles exactly once even when included from multiple parents.
// Structural problems (missing or unreadable files) are collected in
// Issues; resolution never aborts on them.
type ControlGraph struct {
	Root     string
	Edges    map[string][]string
	AllFiles map[string]bool
	Issues   []core.Issue
}

// Files returns all resolved file paths, sorted for deterministic output.
func (g *ControlGraph) Files() []string {
	files := make([]string, 0, len(g.AllFiles))
	for f := range g.AllFiles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Contains reports whether the graph resolved the given path.
func (g *ControlGraph) Contains(path string) bool {
	return g.AllFiles[path]
}

// Resolver follows include directives from a root control file and
// builds the ControlGraph. Each Resolver owns its lookup tables and
// placeholder values; resolutions share no mutable state, so separate
// resolvers are safe to run concurrently.
type Resolver struct {
	registry     *Registry
	placeholders map[string]string
}

// NewResolver creates a Resolver using the given tables and
// placeholder values. A nil registry selects the default tables.
func NewResolver(reg *Registry, placeholders map[string]string) *Resolver {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Resolver{registry: reg, placeholders: placeholders}
}

// ResolvePath resolves a directive token against the directory of the
// control file it appeared in. Backslashes are normalized so Windows
// style relative paths resolve on any platform.
func ResolvePath(baseDir, token string) string {
	norm := strings.ReplaceAll(token, `\`, `/`)
	if filepath.IsAbs(norm) || driveRe.MatchString(token) || strings.HasPrefix(token, `\\`) {
		return filepath.Clean(norm)
	}
	return filepath.Clean(filepath.Join(baseDir, norm))
}

// Resolve builds the control graph starting at rootPath. The root
// path itself is not placeholder-substituted; placeholders apply only
// to referenced paths inside directive values.
func (r *Resolver) Resolve(rootPath string) *ControlGraph {
	g := &ControlGraph{
		Root:     rootPath,
		Edges:    map[string][]string{},
		AllFiles: map[string]bool{},
	}

	visited := map[string]bool{}

	var visit func(path string)
	visit = func(path string) {
		if visited[path] {
			return
		}
		visited[path] = true
		g.AllFiles[path] = true
		if _, ok := g.Edges[path]; !ok {
			g.Edges[path] = nil
		}

		if _, err := os.Stat(path); err != nil {
			g.Issues = append(g.Issues, core.Issue{
				ID:       "CT001_CONTROL_FILE_MISSING",
				Severity: core.SeverityCritical,
				Category: "ControlFiles",
				Message:  fmt.Sprintf("Control file not found: %s", path),
				Suggestion: "Check that the file exists and that the path is " +
					"correct in the calling control file.",
				File: path,
			})
			return
		}

		pf, err := ParseFile(path)
		if err != nil {
			g.Issues = append(g.Issues, core.Issue{
				ID:         "CT002_CONTROL_FILE_READ_ERROR",
				Severity:   core.SeverityCritical,
				Category:   "ControlFiles",
				Message:    fmt.Sprintf("Error reading control file %s: %v", path, err),
				Suggestion: "Check file permissions and encoding.",
				File:       path,
			})
			return
		}

		children := r.collectChildren(pf)
		g.Edges[path] = children
		for _, child := range children {
			visit(child)
		}
	}

	visit(rootPath)
	return g
}

// collectChildren finds all referenced control files in one parsed
// file, substituting placeholders in directive values.
func (r *Resolver) collectChildren(pf ParsedFile) []string {
	baseDir := filepath.Dir(pf.Path)
	var children []string

	for _, d := range pf.Directives {
		if r.registry.IsNonFile(d.Keyword) {
			continue
		}
		cat, ok := r.registry.Category(d.Keyword)
		if !ok || cat != core.CategoryControl {
			continue
		}

		value := SubstitutePlaceholders(d.Value, r.placeholders)
		value = strings.TrimSpace(StripInlineComment(value))

		for _, tok := range TokenizeValue(value) {
			if ok, _ := r.registry.ClassifyToken(tok.Text); !ok {
				continue
			}
			resolved := ResolvePath(baseDir, tok.Text)
			if r.registry.IsControlPath(resolved) {
				children = append(children, resolved)
			}
		}
	}

	return children
}
