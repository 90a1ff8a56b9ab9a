package control

import (
	"path/filepath"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// Registry holds the directive and extension lookup tables that drive
// graph resolution and input classification. A Registry is built once
// (normally via DefaultRegistry) and treated as immutable afterwards;
// tests construct their own to override single tables without leaking
// state across packages.
type Registry struct {
	// Extension sets, lower-case with leading dot.
	controlExts map[string]bool
	soilExts    map[string]bool
	gisExts     map[string]bool
	dbExts      map[string]bool
	allExts     map[string]bool

	// Directive keyword → category, keys normalized via NormalizeKeyword.
	categories map[string]core.InputCategory

	// Keywords that must never be treated as file references even
	// though they use the "key == value" form.
	nonFile map[string]bool
}

// RegistryConfig lists the raw tables a Registry is built from.
// All keyword matching is case-insensitive with collapsed whitespace.
type RegistryConfig struct {
	ControlExts        []string
	SoilExts           []string
	GISExts            []string
	DatabaseExts       []string
	ControlDirectives  []string
	GISDirectives      []string
	DatabaseDirectives []string
	InputDirectives    []string
	GridDirectives     []string
	NonFileDirectives  []string
}

// NormalizeKeyword canonicalises a directive keyword for matching:
// lower-case with internal whitespace collapsed to single spaces.
func NormalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NewRegistry builds a Registry from the given tables.
func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		controlExts: extSet(cfg.ControlExts),
		soilExts:    extSet(cfg.SoilExts),
		gisExts:     extSet(cfg.GISExts),
		dbExts:      extSet(cfg.DatabaseExts),
		allExts:     map[string]bool{},
		categories:  map[string]core.InputCategory{},
		nonFile:     map[string]bool{},
	}

	for _, set := range []map[string]bool{r.controlExts, r.soilExts, r.gisExts, r.dbExts} {
		for ext := range set {
			r.allExts[ext] = true
		}
	}

	// Control wins over the generic tables, INPUT loses to everything:
	// insertion order below mirrors the lookup priority.
	for _, kw := range cfg.InputDirectives {
		r.categories[NormalizeKeyword(kw)] = core.CategoryInput
	}
	for _, kw := range cfg.GridDirectives {
		r.categories[NormalizeKeyword(kw)] = core.CategoryGrid
	}
	for _, kw := range cfg.DatabaseDirectives {
		r.categories[NormalizeKeyword(kw)] = core.CategoryDatabase
	}
	for _, kw := range cfg.GISDirectives {
		r.categories[NormalizeKeyword(kw)] = core.CategoryGIS
	}
	for _, kw := range cfg.ControlDirectives {
		r.categories[NormalizeKeyword(kw)] = core.CategoryControl
	}
	for _, kw := range cfg.NonFileDirectives {
		r.nonFile[NormalizeKeyword(kw)] = true
	}

	return r
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// Category looks up the input category for a directive keyword.
// The keyword may be raw; it is normalized before lookup.
func (r *Registry) Category(keyword string) (core.InputCategory, bool) {
	cat, ok := r.categories[NormalizeKeyword(keyword)]
	return cat, ok
}

// IsNonFile reports whether the keyword is on the never-a-file denylist
// (scenario/event/conditional pseudo-directives). Matching is by
// prefix: "Set Variable CELL" matches the "Set Variable" entry, and
// "If Scenario" matches "If".
func (r *Registry) IsNonFile(keyword string) bool {
	norm := NormalizeKeyword(keyword)
	if r.nonFile[norm] {
		return true
	}
	for entry := range r.nonFile {
		if strings.HasPrefix(norm, entry+" ") {
			return true
		}
	}
	return false
}

// IsControlPath reports whether the path has a control-file extension.
func (r *Registry) IsControlPath(path string) bool {
	return r.controlExts[strings.ToLower(filepath.Ext(path))]
}

// HasKnownExt reports whether the token ends with any registered
// extension (control, soils, GIS, database or grid).
func (r *Registry) HasKnownExt(token string) bool {
	return r.allExts[strings.ToLower(filepath.Ext(token))]
}

// DefaultRegistry returns the tables curated from the host format's
// documented directive set. The allow-lists are deliberately explicit:
// unknown "key == value.ext" lines are never treated as includes.
func DefaultRegistry() *Registry {
	return NewRegistry(RegistryConfig{
		ControlExts: []string{
			".tcf", ".tgc", ".tbc", ".ecf",
			".qcf", ".tef", ".toc", ".trfc",
			".adcf",
		},
		SoilExts: []string{".tsoilf"},
		GISExts: []string{
			".shp", ".tab", ".mif", ".mid",
			".gpkg", ".gdb",
			".tif", ".tiff", ".asc", ".flt", ".bil", ".grd",
		},
		DatabaseExts: []string{
			".csv", ".txt", ".dat", ".dbf", ".sqlite", ".gpkg",
		},
		ControlDirectives: []string{
			"Read File",
			"Geometry Control File",
			"BC Control File",
			"ESTRY Control File",
			"Quadtree Control File",
			"Event File",
			"Rainfall Control File",
			"Operations Control File",
			"Operations Control",
			"AD Control File",
			"Advection Dispersion Control File",
			"Advection Dispersion Control",
			"External Stress File",
			"SWMM Control File",
		},
		GISDirectives: []string{
			"Read GIS 12D Network",
			"Read GIS 12D Nodes",
			"Read GIS 12D WLL Points",
			"Calibration Points MI File",
			"Read GIS",
			"Read GIS Z Shape",
			"Read GIS Code",
			"Read GIS Attribute",
			"Read GIS Materials",
			"Read GIS Roughness",
			"Read GIS Resistance",
			"Read GIS Source",
			"Read GIS Boundary",
			"Read GIS Flow",
			"Read BC",
			"Read BC GIS",
			"Read Source GIS",
			"Read GIS Network",
			"Read GIS Nodes",
			"Read GIS Links",
		},
		DatabaseDirectives: []string{
			"BC Database",
			"Read BC Database",
			"Spatial Database",
			"Read Structure Database",
			"Read Attribute Database",
		},
		InputDirectives: []string{
			"Soils File",
			"Read Soils File",
			"Infiltration File",
			"Losses File",
			"Initial Loss File",
			"Continuing Loss File",
			"Rainfall File",
			"Read Rainfall",
			"Read RF",
			"Rainfall Pattern File",
			"Inflow File",
			"Flow Hydrograph",
			"Stage Hydrograph",
			"HQ File",
			"ZQ File",
			"QT File",
			"Read Table",
			"Read Materials File",
			"Read Roughness File",
			"Read Resistance File",
			"Restart File",
			"Initial Conditions File",
			"Hot Start File",
			"FEWS Input File",
			"Blockage Matrix File",
		},
		GridDirectives: []string{
			"Read Grid",
			"Read DEM",
			"Read ASC",
			"Read TIF",
			"Read TIFF",
			"Read BIL",
			"Read FLT",
			"Rainfall Grid",
			"Read Rainfall Grid",
		},
		NonFileDirectives: []string{
			"Scenario",
			"Event",
			"Else if Scenario",
			"Set Variable",
			"Define",
			"If",
			"Else",
			"End If",
		},
	})
}
