// Package capture resolves parsed edge descriptors into the
// absolute capture-rect of a sheet, using its non-empty-cell states
// matrix and used-range bounds. Edge tokens resolve against margins
// ("^"/"_") or base coordinates ("."), targeting moves walk from the
// landing cell to the first non-empty cell, and expansion directives
// grow the rectangle outward while adjacent lines stay non-empty.
package capture

import (
	"fmt"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// ResolveCaptureRect resolves the two edges into absolute,
// inclusive, ordered coordinates. A nil `nd` without expansion
// directives yields a nil bottom-right (an open-ended single-cell
// rect); with directives the rect starts as the single `st` cell and
// expands from there. `base` anchors "."-tokens of the first edge
// and may be nil when the reference is not nested.
func ResolveCaptureRect(states [][]bool, marginMin, marginMax models.Coords,
	st, nd *models.Edge, expMoves string, base *models.Coords) (models.Coords, *models.Coords, error) {

	if st == nil {
		return models.Coords{}, nil, fmt.Errorf("missing 1st edge")
	}
	stCoords, err := resolveEdge(st, states, marginMin, marginMax, base)
	if err != nil {
		return models.Coords{}, nil, fmt.Errorf("1st edge %s: %w", st, err)
	}

	var ndCoords *models.Coords
	if nd != nil {
		// "."-tokens of the 2nd edge depend on the resolved 1st.
		c, err := resolveEdge(nd, states, marginMin, marginMax, &stCoords)
		if err != nil {
			return models.Coords{}, nil, fmt.Errorf("2nd edge %s: %w", nd, err)
		}
		ndCoords = &c
	}

	if ndCoords != nil {
		stCoords, *ndCoords = orderRect(stCoords, *ndCoords)
	}

	if expMoves != "" {
		if ndCoords == nil {
			c := stCoords
			ndCoords = &c
		}
		directives, err := parseExpMoves(expMoves)
		if err != nil {
			return models.Coords{}, nil, err
		}
		expand(states, directives, &stCoords, ndCoords)
	}

	return stCoords, ndCoords, nil
}

func resolveEdge(e *models.Edge, states [][]bool, marginMin, marginMax models.Coords,
	base *models.Coords) (models.Coords, error) {

	row, err := resolveAxis(e.Row, false, marginMin, marginMax, base)
	if err != nil {
		return models.Coords{}, err
	}
	col, err := resolveAxis(e.Col, true, marginMin, marginMax, base)
	if err != nil {
		return models.Coords{}, err
	}
	c := models.Coords{Row: row, Col: col}
	if e.Moves != "" {
		return target(states, c, e.Moves)
	}
	return c, nil
}

func resolveAxis(r models.AxisRef, isCol bool, marginMin, marginMax models.Coords,
	base *models.Coords) (int, error) {

	pick := func(c models.Coords) int {
		if isCol {
			return c.Col
		}
		return c.Row
	}
	switch r.Kind {
	case models.RefAbs:
		return r.Index, nil
	case models.RefMarginMin:
		return pick(marginMin), nil
	case models.RefMarginMax:
		return pick(marginMax), nil
	case models.RefBase:
		if base == nil {
			return 0, fmt.Errorf(`"."-token without base coordinates`)
		}
		return pick(*base), nil
	}
	return 0, fmt.Errorf("unknown axis-ref kind %d", r.Kind)
}

func matrixDims(states [][]bool) (rows, cols int) {
	rows = len(states)
	if rows > 0 {
		cols = len(states[0])
	}
	return rows, cols
}

func cellState(states [][]bool, row, col int) bool {
	if row < 0 || col < 0 || row >= len(states) || col >= len(states[row]) {
		return false
	}
	return states[row][col]
}

// target walks from the landing cell along each move direction in
// turn until the first non-empty cell; an already non-empty landing
// cell stays put. Failing to meet any non-empty cell is an error.
func target(states [][]bool, c models.Coords, moves string) (models.Coords, error) {
	if cellState(states, c.Row, c.Col) {
		return c, nil
	}
	rows, cols := matrixDims(states)
	for _, mv := range moves {
		dr, dc := moveDelta(mv)
		for {
			nr, nc := c.Row+dr, c.Col+dc
			if nr < 0 || nc < 0 || nr >= rows || nc >= cols {
				break
			}
			c.Row, c.Col = nr, nc
			if cellState(states, nr, nc) {
				return c, nil
			}
		}
	}
	return c, fmt.Errorf("targeting moves %q hit the sheet boundary without a full cell", moves)
}

func moveDelta(mv rune) (dr, dc int) {
	switch mv {
	case 'L':
		return 0, -1
	case 'U':
		return -1, 0
	case 'R':
		return 0, 1
	case 'D':
		return 1, 0
	}
	return 0, 0
}

func orderRect(st, nd models.Coords) (models.Coords, models.Coords) {
	if nd.Row < st.Row {
		st.Row, nd.Row = nd.Row, st.Row
	}
	if nd.Col < st.Col {
		st.Col, nd.Col = nd.Col, st.Col
	}
	return st, nd
}

type expDirective struct {
	move rune
	// max caps the growth steps; 0 means unlimited.
	max int
}

func parseExpMoves(s string) ([]expDirective, error) {
	var out []expDirective
	for i := 0; i < len(s); i++ {
		mv := rune(s[i])
		switch mv {
		case 'L', 'U', 'R', 'D':
		default:
			return nil, fmt.Errorf("invalid expansion directive %q in %q", mv, s)
		}
		d := expDirective{move: mv}
		for i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			d.max = d.max*10 + int(s[i+1]-'0')
			i++
		}
		out = append(out, d)
	}
	return out, nil
}

// expand grows one rect edge per directive while the adjacent
// row/column still contains a non-empty cell, stopping at the first
// empty line, the sheet boundary, or the directive's repeat cap.
func expand(states [][]bool, directives []expDirective, st, nd *models.Coords) {
	rows, cols := matrixDims(states)
	for _, d := range directives {
		for steps := 0; d.max == 0 || steps < d.max; steps++ {
			var grown bool
			switch d.move {
			case 'L':
				if st.Col > 0 && anyInCol(states, st.Col-1, st.Row, nd.Row) {
					st.Col--
					grown = true
				}
			case 'U':
				if st.Row > 0 && anyInRow(states, st.Row-1, st.Col, nd.Col) {
					st.Row--
					grown = true
				}
			case 'R':
				if nd.Col < cols-1 && anyInCol(states, nd.Col+1, st.Row, nd.Row) {
					nd.Col++
					grown = true
				}
			case 'D':
				if nd.Row < rows-1 && anyInRow(states, nd.Row+1, st.Col, nd.Col) {
					nd.Row++
					grown = true
				}
			}
			if !grown {
				break
			}
		}
	}
}

func anyInRow(states [][]bool, row, colFrom, colTo int) bool {
	for c := colFrom; c <= colTo; c++ {
		if cellState(states, row, c) {
			return true
		}
	}
	return false
}

func anyInCol(states [][]bool, col, rowFrom, rowTo int) bool {
	for r := rowFrom; r <= rowTo; r++ {
		if cellState(states, r, col) {
			return true
		}
	}
	return false
}
