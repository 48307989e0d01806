// Package xlsx implements the sheet capability interface on top of
// excelize, serving xlsx workbooks to the resolution pipeline.
package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// Sheet is one worksheet of an open xlsx workbook. Sibling sheets
// share the underlying file; only the sheet that opened the file
// closes it.
type Sheet struct {
	file  *excelize.File
	wbID  string
	name  string
	index int
	// owned marks the sheet whose Close releases the file.
	owned bool

	states [][]bool
	values [][]any
	min    models.Coords
	max    models.Coords
}

// Open opens the workbook at `path` and serves the named sheet. An
// empty sheetID means the active sheet; a numeric sheetID is a
// zero-based index.
func Open(path, sheetID string, _ *models.Opts) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	s, err := newSheet(f, path, sheetID, true)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// OpenSheet adapts Open to the factory's backend-opener signature,
// treating the workbook id as a file path.
func OpenSheet(wbID, sheetID string, opts *models.Opts) (models.Sheet, error) {
	return Open(wbID, sheetID, opts)
}

func newSheet(f *excelize.File, wbID, sheetID string, owned bool) (*Sheet, error) {
	name, index, err := findSheet(f, sheetID)
	if err != nil {
		return nil, err
	}
	s := &Sheet{file: f, wbID: wbID, name: name, index: index, owned: owned}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// findSheet resolves a sheet id (name, index or "") to a worksheet.
func findSheet(f *excelize.File, sheetID string) (name string, index int, err error) {
	if sheetID == "" {
		index = f.GetActiveSheetIndex()
		name = f.GetSheetName(index)
		if name == "" {
			return "", 0, fmt.Errorf("workbook has no active sheet")
		}
		return name, index, nil
	}
	if index, err = f.GetSheetIndex(sheetID); err == nil && index >= 0 {
		return sheetID, index, nil
	}
	if n, convErr := strconv.Atoi(sheetID); convErr == nil {
		name = f.GetSheetName(n)
		if name != "" {
			return name, n, nil
		}
	}
	return "", 0, fmt.Errorf("no sheet %q in workbook", sheetID)
}

// SheetIDs returns the workbook path and the sheet's aliases: its
// name and its index rendered as text.
func (s *Sheet) SheetIDs() (string, []string) {
	return s.wbID, []string{s.name, strconv.Itoa(s.index)}
}

// OpenSiblingSheet serves another sheet of the same workbook without
// re-opening the file.
func (s *Sheet) OpenSiblingSheet(sheetID string, _ *models.Opts) (models.Sheet, error) {
	return newSheet(s.file, s.wbID, sheetID, false)
}

// load decodes the sheet at open time: typed cell values (int64 when
// integral, float64, else string), the non-empty states matrix and
// the used-range bounds. A decode failure fails the open, so later
// reads serve the snapshot unconditionally.
func (s *Sheet) load() error {
	rows, err := s.file.GetRows(s.name)
	if err != nil {
		return err
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	s.values = make([][]any, len(rows))
	s.states = make([][]bool, len(rows))
	minRow, minCol, maxRow, maxCol := -1, -1, 0, 0
	for r, row := range rows {
		s.values[r] = make([]any, cols)
		s.states[r] = make([]bool, cols)
		for c, cell := range row {
			if cell == "" {
				continue
			}
			s.values[r][c] = parseValue(cell)
			s.states[r][c] = true
			if minRow < 0 || r < minRow {
				minRow = r
			}
			if minCol < 0 || c < minCol {
				minCol = c
			}
			if r > maxRow {
				maxRow = r
			}
			if c > maxCol {
				maxCol = c
			}
		}
	}
	if minRow < 0 {
		minRow, minCol = 0, 0
	}
	s.min = models.Coords{Row: minRow, Col: minCol}
	s.max = models.Coords{Row: maxRow, Col: maxCol}
	return nil
}

// StatesMatrix reports true where a cell is non-empty.
func (s *Sheet) StatesMatrix() [][]bool {
	return s.states
}

// MarginCoords returns the used-range bounds.
func (s *Sheet) MarginCoords() (models.Coords, models.Coords) {
	return s.min, s.max
}

// ReadRect reads the inclusive slab between the two coordinates,
// nil-padding cells outside the decoded area; a nil `nd` reads the
// single cell at `st` as a scalar.
func (s *Sheet) ReadRect(st models.Coords, nd *models.Coords) (any, error) {
	if nd == nil {
		return s.cell(st.Row, st.Col), nil
	}
	table := make([][]any, 0, nd.Row-st.Row+1)
	for r := st.Row; r <= nd.Row; r++ {
		row := make([]any, 0, nd.Col-st.Col+1)
		for c := st.Col; c <= nd.Col; c++ {
			row = append(row, s.cell(r, c))
		}
		table = append(table, row)
	}
	return table, nil
}

func (s *Sheet) cell(r, c int) any {
	if r < 0 || c < 0 || r >= len(s.values) || c >= len(s.values[r]) {
		return nil
	}
	return s.values[r][c]
}

// Close releases the workbook when this sheet owns it; sibling
// handles are no-ops.
func (s *Sheet) Close() error {
	if !s.owned || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// parseValue types a formatted cell text: int64 for integers,
// float64 for decimals, bool for TRUE/FALSE, else the text itself.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return s
}
