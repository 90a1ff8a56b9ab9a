package runner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/control"
)

// RunLogs locates the three log files of one solver run. Empty string
// fields mean the file was not found.
type RunLogs struct {
	Dir         string
	TLF         string
	HpcTLF      string
	MessagesCSV string
}

// BuildLogStem derives the log file name stem from the root control
// file's name by substituting placeholder values. This only selects
// which log files to look for; it never changes which file is run.
func BuildLogStem(rootPath string, placeholders map[string]string) string {
	base := filepath.Base(strings.ReplaceAll(rootPath, `\`, `/`))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return control.SubstitutePlaceholders(stem, placeholders)
}

// FindLogFolder determines the log directory for a run.
//
// Priority: a "Log Folder" directive in the root control file, then
// one in any other file of the graph, then the root file's own
// directory.
func FindLogFolder(rootPath string, placeholders map[string]string, graph *control.ControlGraph) string {
	ordered := []string{rootPath}
	if graph != nil {
		for _, path := range graph.Files() {
			if path != rootPath {
				ordered = append(ordered, path)
			}
		}
	}

	for _, path := range ordered {
		pf, err := control.ParseFile(path)
		if err != nil {
			continue
		}
		for _, d := range pf.Directives {
			if control.NormalizeKeyword(d.Keyword) != "log folder" {
				continue
			}
			raw := control.StripQuotes(control.SubstitutePlaceholders(d.Value, placeholders))
			if raw == "" {
				continue
			}
			return control.ResolvePath(filepath.Dir(path), raw)
		}
	}

	return filepath.Dir(rootPath)
}

// FindRunLogs locates the run log, hardware log and message file for
// the given root control file, using the log folder and stem rules.
func FindRunLogs(rootPath string, placeholders map[string]string, graph *control.ControlGraph) RunLogs {
	dir := FindLogFolder(rootPath, placeholders, graph)
	stem := BuildLogStem(rootPath, placeholders)

	logs := RunLogs{Dir: dir}
	if p := filepath.Join(dir, stem+".tlf"); fileExists(p) {
		logs.TLF = p
	}
	if p := filepath.Join(dir, stem+".hpc.tlf"); fileExists(p) {
		logs.HpcTLF = p
	}
	if p := filepath.Join(dir, stem+"_messages.csv"); fileExists(p) {
		logs.MessagesCSV = p
	}
	return logs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
