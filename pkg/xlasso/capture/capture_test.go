package capture

import (
	"strings"
	"testing"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// parseStates turns a compact picture into a states matrix: 'X' is a
// non-empty cell, '.' an empty one.
func parseStates(picture string) [][]bool {
	var states [][]bool
	for _, line := range strings.Fields(picture) {
		row := make([]bool, len(line))
		for i, ch := range line {
			row[i] = ch == 'X'
		}
		states = append(states, row)
	}
	return states
}

func margins(states [][]bool) (models.Coords, models.Coords) {
	min, max := models.Coords{Row: -1, Col: -1}, models.Coords{}
	for r, row := range states {
		for c, full := range row {
			if !full {
				continue
			}
			if min.Row < 0 || r < min.Row {
				min.Row = r
			}
			if min.Col < 0 || c < min.Col {
				min.Col = c
			}
			if r > max.Row {
				max.Row = r
			}
			if c > max.Col {
				max.Col = c
			}
		}
	}
	if min.Row < 0 {
		min = models.Coords{}
	}
	return min, max
}

func absEdge(row, col int) *models.Edge {
	return &models.Edge{
		Row: models.AxisRef{Kind: models.RefAbs, Index: row},
		Col: models.AxisRef{Kind: models.RefAbs, Index: col},
	}
}

func mustResolve(t *testing.T, states [][]bool, st, nd *models.Edge,
	exp string, base *models.Coords) (models.Coords, *models.Coords) {
	t.Helper()
	mn, mx := margins(states)
	stC, ndC, err := ResolveCaptureRect(states, mn, mx, st, nd, exp, base)
	if err != nil {
		t.Fatalf("ResolveCaptureRect failed: %v", err)
	}
	return stC, ndC
}

func TestResolveAbsoluteRect(t *testing.T) {
	states := parseStates(`
		XXX.
		XXX.
		XXX.
	`)
	st, nd := mustResolve(t, states, absEdge(0, 0), absEdge(2, 2), "", nil)
	if st != (models.Coords{}) || *nd != (models.Coords{Row: 2, Col: 2}) {
		t.Errorf("rect = %v:%v, want R1C1:R3C3", st, nd)
	}
}

func TestResolveOrdersCoords(t *testing.T) {
	states := parseStates(`
		XXX
		XXX
	`)
	st, nd := mustResolve(t, states, absEdge(1, 2), absEdge(0, 0), "", nil)
	if st != (models.Coords{}) || *nd != (models.Coords{Row: 1, Col: 2}) {
		t.Errorf("rect = %v:%v, want ordered corners", st, nd)
	}
}

func TestResolveMarginTokens(t *testing.T) {
	states := parseStates(`
		....
		.XX.
		.XX.
	`)
	st := &models.Edge{
		Row: models.AxisRef{Kind: models.RefMarginMin},
		Col: models.AxisRef{Kind: models.RefMarginMin},
	}
	nd := &models.Edge{
		Row: models.AxisRef{Kind: models.RefMarginMax},
		Col: models.AxisRef{Kind: models.RefMarginMax},
	}
	stC, ndC := mustResolve(t, states, st, nd, "", nil)
	if stC != (models.Coords{Row: 1, Col: 1}) || *ndC != (models.Coords{Row: 2, Col: 2}) {
		t.Errorf("rect = %v:%v, want the used range", stC, ndC)
	}
}

func TestResolveBaseTokens(t *testing.T) {
	states := parseStates(`
		XXX
		XXX
	`)
	base := models.Coords{Row: 1, Col: 2}
	st := &models.Edge{
		Row: models.AxisRef{Kind: models.RefBase},
		Col: models.AxisRef{Kind: models.RefBase},
	}
	stC, _ := mustResolve(t, states, st, nil, "", &base)
	if stC != base {
		t.Errorf("st = %v, want the base coords", stC)
	}

	// A "."-token of the 2nd edge depends on the resolved 1st.
	nd := &models.Edge{
		Row: models.AxisRef{Kind: models.RefBase},
		Col: models.AxisRef{Kind: models.RefAbs, Index: 0},
	}
	stC, ndC := mustResolve(t, states, absEdge(0, 1), nd, "", nil)
	if ndC == nil || ndC.Row != 0 {
		t.Errorf("nd = %v, want row anchored to the 1st edge", ndC)
	}
	if stC.Col != 0 || ndC.Col != 1 {
		t.Errorf("rect = %v:%v, want ordered columns", stC, ndC)
	}

	// Without base coords a "."-token cannot resolve.
	mn, mx := margins(states)
	if _, _, err := ResolveCaptureRect(states, mn, mx, st, nil, "", nil); err == nil {
		t.Error("expected an error for a base token without base coords")
	}
}

func TestTargetingMoves(t *testing.T) {
	states := parseStates(`
		....
		....
		X...
	`)
	// Landing on the empty A1, moving down meets A3.
	st := absEdge(0, 0)
	st.Moves = "D"
	stC, _ := mustResolve(t, states, st, nil, "", nil)
	if stC != (models.Coords{Row: 2, Col: 0}) {
		t.Errorf("st = %v, want R3C1", stC)
	}

	// A full landing cell stays put.
	st = absEdge(2, 0)
	st.Moves = "U"
	stC, _ = mustResolve(t, states, st, nil, "", nil)
	if stC != (models.Coords{Row: 2, Col: 0}) {
		t.Errorf("st = %v, want R3C1", stC)
	}

	// Moves meeting no full cell are an error.
	st = absEdge(0, 3)
	st.Moves = "U"
	mn, mx := margins(states)
	if _, _, err := ResolveCaptureRect(states, mn, mx, st, nil, "", nil); err == nil {
		t.Error("expected a targeting error")
	}
}

func TestExpansion(t *testing.T) {
	states := parseStates(`
		......
		.XXXX.
		.XXXX.
		......
	`)
	// C2:D3 expands left, right and down through non-empty lines,
	// stopping at the first empty one.
	st, nd := mustResolve(t, states, absEdge(1, 2), absEdge(2, 3), "LRD", nil)
	if st != (models.Coords{Row: 1, Col: 1}) {
		t.Errorf("st = %v, want R2C2", st)
	}
	if *nd != (models.Coords{Row: 2, Col: 4}) {
		t.Errorf("nd = %v, want R3C5", nd)
	}
}

func TestExpansionCapped(t *testing.T) {
	states := parseStates(`
		XXXXXX
	`)
	// R2 grows right by at most two columns.
	st, nd := mustResolve(t, states, absEdge(0, 1), absEdge(0, 1), "R2", nil)
	if st.Col != 1 || nd.Col != 3 {
		t.Errorf("rect = %v:%v, want two growth steps", st, nd)
	}
}

func TestExpansionFromOpenEnded(t *testing.T) {
	states := parseStates(`
		XX..
		XX..
	`)
	// A1 with expansion directives starts as a single cell and
	// grows into the full block.
	st, nd := mustResolve(t, states, absEdge(0, 0), nil, "RD", nil)
	if nd == nil {
		t.Fatal("expansion left the rect open-ended")
	}
	if st != (models.Coords{}) || *nd != (models.Coords{Row: 1, Col: 1}) {
		t.Errorf("rect = %v:%v, want R1C1:R2C2", st, nd)
	}
}

func TestMissingFirstEdge(t *testing.T) {
	if _, _, err := ResolveCaptureRect(nil, models.Coords{}, models.Coords{}, nil, nil, "", nil); err == nil {
		t.Error("expected an error for a missing 1st edge")
	}
}
