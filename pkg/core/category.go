package core

import "strings"

// InputCategory classifies an external file reference found in the
// configuration graph. The enumeration is closed: categories are
// assigned from the directive lookup tables, never invented.
type InputCategory int

// Input categories, in display order.
const (
	// CategoryControl marks another control file in the include graph.
	CategoryControl InputCategory = iota
	// CategoryInput marks a generic input file (soils, losses, hydrographs).
	CategoryInput
	// CategoryDatabase marks a database container (CSV, DBF, SQLite, GPKG).
	CategoryDatabase
	// CategoryGIS marks a GIS vector or raster container.
	CategoryGIS
	// CategoryGrid marks a grid/raster elevation or rainfall read.
	CategoryGrid
)

// String returns the canonical upper-case category name.
func (c InputCategory) String() string {
	switch c {
	case CategoryControl:
		return "CONTROL"
	case CategoryInput:
		return "INPUT"
	case CategoryDatabase:
		return "DATABASE"
	case CategoryGIS:
		return "GIS"
	case CategoryGrid:
		return "GRID"
	default:
		return "UNKNOWN"
	}
}

// Title returns the human-readable group heading used in the model tree.
func (c InputCategory) Title() string {
	switch c {
	case CategoryControl:
		return "Control Files"
	case CategoryInput:
		return "Input Files"
	case CategoryDatabase:
		return "Databases"
	case CategoryGIS:
		return "GIS Layers"
	case CategoryGrid:
		return "Grid Inputs"
	default:
		return "Unknown"
	}
}

// ParseInputCategory converts a string to an InputCategory.
// Returns the category and true if valid.
func ParseInputCategory(s string) (InputCategory, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONTROL":
		return CategoryControl, true
	case "INPUT":
		return CategoryInput, true
	case "DATABASE":
		return CategoryDatabase, true
	case "GIS":
		return CategoryGIS, true
	case "GRID":
		return CategoryGrid, true
	default:
		return CategoryInput, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c InputCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
