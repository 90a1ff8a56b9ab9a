// Package scan walks every file of a resolved control graph, extracts
// the external data files it references (GIS layers, databases,
// rasters, soils tables) and assembles the unified model tree.
package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/control"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// Options configures an input scan.
type Options struct {
	// Registry supplies the directive and extension tables;
	// nil selects the defaults.
	Registry *control.Registry
	// Placeholders maps ~name~ tokens to values.
	Placeholders map[string]string
	// Debug records one audit line per line/token decision.
	Debug bool
	// Logger receives the audit lines at debug level. Nil discards.
	Logger *slog.Logger
}

// Result is the outcome of a full input scan.
type Result struct {
	Root     string
	Graph    *control.ControlGraph
	Inputs   []core.InputRef
	Tree     *core.ModelNode
	DebugLog []string
}

// MissingInputs returns the paths of referenced inputs that do not
// exist on disk, sorted.
func (r *Result) MissingInputs() []string {
	var missing []string
	for _, inp := range r.Inputs {
		if !inp.Exists {
			missing = append(missing, inp.Path)
		}
	}
	return missing
}

// Scanner discovers input file references across a control graph.
// Scanners share no mutable state; independent scans are safe to run
// concurrently.
type Scanner struct {
	registry     *control.Registry
	placeholders map[string]string
	debug        bool
	logger       *slog.Logger
}

// NewScanner creates a Scanner from the given options.
func NewScanner(opts Options) *Scanner {
	reg := opts.Registry
	if reg == nil {
		reg = control.DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		registry:     reg,
		placeholders: opts.Placeholders,
		debug:        opts.Debug,
		logger:       logger,
	}
}

// Scan resolves the control graph from rootPath, scans every resolved
// file for input references, deduplicates them by (path, category,
// layer) and builds the model tree. Missing or unreadable files never
// abort the scan; they surface as graph issues and skipped files.
func (s *Scanner) Scan(rootPath string) *Result {
	graph := control.NewResolver(s.registry, s.placeholders).Resolve(rootPath)
	return s.ScanGraph(graph)
}

// ScanGraph scans a previously resolved graph. Files are visited in
// sorted order; results are deduplicated so visit order is irrelevant.
func (s *Scanner) ScanGraph(graph *control.ControlGraph) *Result {
	result := &Result{Root: graph.Root, Graph: graph}

	seen := map[refKey]bool{}
	for _, path := range graph.Files() {
		for _, ref := range s.scanFile(path, &result.DebugLog) {
			key := refKey{ref.Path, ref.Category, ref.Layer}
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Inputs = append(result.Inputs, ref)
		}
	}

	result.Tree = BuildModelTree(graph, result.Inputs)
	return result
}

type refKey struct {
	path     string
	category core.InputCategory
	layer    string
}

func (s *Scanner) logf(log *[]string, format string, args ...any) {
	if !s.debug {
		return
	}
	line := fmt.Sprintf(format, args...)
	*log = append(*log, line)
	s.logger.Debug(line)
}

// scanFile extracts input references from one control file.
func (s *Scanner) scanFile(path string, debugLog *[]string) []core.InputRef {
	pf, err := control.ParseFile(path)
	if err != nil {
		s.logf(debugLog, "%s: skipped (unreadable)", path)
		return nil
	}

	baseDir := filepath.Dir(path)
	s.logf(debugLog, "Scanning %s", path)

	var inputs []core.InputRef
	ignored := 0
	for _, d := range pf.Directives {
		if s.registry.IsNonFile(d.Keyword) {
			s.logf(debugLog, "%s:%d: directive %q ignored (non-file directive)", path, d.Line, d.Keyword)
			continue
		}

		category, ok := s.registry.Category(d.Keyword)
		if !ok {
			s.logf(debugLog, "%s:%d: unrecognised directive %q -> skipped", path, d.Line, d.Keyword)
			continue
		}

		value := strings.TrimSpace(control.SubstitutePlaceholders(d.Value, s.placeholders))

		tokens := control.TokenizeValue(value)
		s.logf(debugLog, "%s:%d: directive %q -> %d token(s)", path, d.Line, d.Keyword, len(tokens))

		for _, tok := range tokens {
			accepted, reason := s.registry.ClassifyToken(tok.Text)
			if !accepted {
				ignored++
				s.logf(debugLog, "%s:%d: ignored token %q (layer=%q) - %s", path, d.Line, tok.Text, tok.Layer, reason)
				continue
			}

			resolved := control.ResolvePath(baseDir, tok.Text)
			exists := fileExists(resolved)
			inputs = append(inputs, core.InputRef{
				Path:       resolved,
				Category:   category,
				SourceFile: path,
				Line:       d.Line,
				Exists:     exists,
				Layer:      tok.Layer,
			})
			s.logf(debugLog, "%s:%d: matched %q -> %s (exists=%t, kind=%s, layer=%q)",
				path, d.Line, d.Keyword, resolved, exists, category, tok.Layer)
		}
	}

	if ignored > 0 {
		s.logf(debugLog, "%s: ignored non-file tokens: %d", path, ignored)
	}

	return inputs
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
