package models

// Sheet is the capability interface every spreadsheet backend
// implements. The resolution pipeline consumes it for identity,
// cell-state inspection and rectangular reads; it never decodes
// workbook formats itself.
type Sheet interface {
	// SheetIDs returns the canonical workbook identifier plus every
	// sheet identifier aliasing this sheet (name, index, ...).
	SheetIDs() (wbID string, sheetIDs []string)

	// OpenSiblingSheet opens another sheet of the same workbook,
	// reusing the already-paid open cost.
	OpenSiblingSheet(sheetID string, opts *Opts) (Sheet, error)

	// StatesMatrix reports true where a cell is non-empty.
	StatesMatrix() [][]bool

	// MarginCoords returns the used-range bounds, both inclusive.
	MarginCoords() (min, max Coords)

	// ReadRect reads the inclusive value slab between two resolved
	// coordinates as rows of cells; empty cells are explicit nils so
	// the result stays rectangular. A nil `nd` reads the single cell
	// at `st`, returning a scalar.
	ReadRect(st Coords, nd *Coords) (any, error)

	// Close releases backend resources.
	Close() error
}
