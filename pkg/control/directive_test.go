package control

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseText_DirectiveForms(t *testing.T) {
	text := "Geometry Control File == model.tgc\n" +
		"Timestep = 2.5\n" +
		"Start Time (h) == 0.0\n"

	pf := ParseText("model.tcf", text)

	if len(pf.Directives) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(pf.Directives))
	}

	d := pf.Directives[0]
	if d.Keyword != "Geometry Control File" {
		t.Errorf("keyword: got %q", d.Keyword)
	}
	if d.Value != "model.tgc" {
		t.Errorf("value: got %q", d.Value)
	}
	if d.Line != 1 {
		t.Errorf("line: got %d, want 1", d.Line)
	}

	if pf.Directives[1].Keyword != "Timestep" || pf.Directives[1].Value != "2.5" {
		t.Errorf("single-equals directive parsed wrong: %+v", pf.Directives[1])
	}
	if pf.Directives[2].Line != 3 {
		t.Errorf("line numbers must be 1-based source lines, got %d", pf.Directives[2].Line)
	}
}

func TestParseText_CommentsAndBlanksYieldNoDirective(t *testing.T) {
	text := "! full line comment\n" +
		"# another comment\n" +
		"// and another\n" +
		"\n" +
		"   \n" +
		"Read GIS == layer.shp ! trailing comment\n" +
		"Soils File == soils.tsoilf // trailing\n" +
		"BC Database == bc.csv # trailing\n" +
		"Cell Size == 5 ; trailing\n"

	pf := ParseText("model.tcf", text)

	if len(pf.Directives) != 4 {
		t.Fatalf("expected 4 directives, got %d: %+v", len(pf.Directives), pf.Directives)
	}
	for _, d := range pf.Directives {
		for _, marker := range []string{"!", "//", "#", ";"} {
			if strings.Contains(d.Value, marker) {
				t.Errorf("value %q still contains comment marker %q", d.Value, marker)
			}
		}
	}
	if pf.Directives[0].Value != "layer.shp" {
		t.Errorf("inline comment not stripped: %q", pf.Directives[0].Value)
	}
	if pf.Directives[3].Value != "5" {
		t.Errorf("semicolon comment not stripped: %q", pf.Directives[3].Value)
	}
}

func TestParseText_NonDirectiveLinesSkipped(t *testing.T) {
	text := "If Scenario == 5m\n" + // still key==value, kept
		"Define Output Zone A\n" + // no equals, skipped
		"End Define\n" +
		"Pause\n"

	pf := ParseText("model.tcf", text)
	if len(pf.Directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(pf.Directives))
	}
}

func TestParseFile_ReadError(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.tcf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.tcf")
	if err := os.WriteFile(path, []byte("Read File == other.tcf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pf, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pf.Directives) != 1 || pf.Directives[0].Value != "other.tcf" {
		t.Fatalf("unexpected parse result: %+v", pf)
	}
}
