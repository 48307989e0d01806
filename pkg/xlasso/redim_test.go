package xlasso

import (
	"reflect"
	"testing"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

func coords(row, col int) *models.Coords {
	return &models.Coords{Row: row, Col: col}
}

func TestClassifyRectShape(t *testing.T) {
	tests := []struct {
		name string
		st   models.Coords
		nd   *models.Coords
		want int
	}{
		{"open-ended", models.Coords{Row: 1, Col: 1}, nil, shapeOpenEnded},
		{"cell", models.Coords{Row: 2, Col: 2}, coords(2, 2), shapeCell},
		{"row", models.Coords{Row: 2, Col: 2}, coords(2, 20), shapeRow},
		{"col", models.Coords{Row: 2, Col: 2}, coords(20, 2), shapeCol},
		{"table", models.Coords{Row: 2, Col: 2}, coords(20, 20), shapeTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyRectShape(tt.st, tt.nd); got != tt.want {
				t.Errorf("classifyRectShape = %d, want %d", got, tt.want)
			}
		})
	}
}

// Classification is total: every ordered coordinate pair yields
// exactly one of the five classes, and a degenerate pair is a cell.
func TestClassifyRectShapeTotal(t *testing.T) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			st := models.Coords{}
			nd := coords(row, col)
			got := classifyRectShape(st, nd)
			if got < shapeCell || got > shapeTable {
				t.Fatalf("classifyRectShape(%v, %v) = %d, out of range", st, nd, got)
			}
			if row == 0 && col == 0 && got != shapeCell {
				t.Errorf("classify(c, c) = %d, want cell", got)
			}
		}
	}
}

func TestRedim(t *testing.T) {
	tests := []struct {
		name   string
		values any
		ndim   int
		want   any
	}{
		{"up 1->2", []any{int64(1), int64(2)}, 2, []any{[]any{int64(1), int64(2)}}},
		{"down 2->1", [][]any{{int64(1), int64(2)}}, 1, []any{int64(1), int64(2)}},
		{"empty up", []any{}, 2, []any{[]any{}}},
		{"scalar down", [][]any{{3.14}}, 0, 3.14},
		{"too wide for 0", [][]any{{int64(11), int64(22)}}, 0, []any{int64(11), int64(22)}},
		{"same ndim", []any{int64(1)}, 1, []any{int64(1)}},
		{"up 0->2", int64(7), 2, []any{[]any{int64(7)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Redim(tt.values, tt.ndim, false)
			if err != nil {
				t.Fatalf("Redim failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Redim = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRedimTranspose(t *testing.T) {
	values := [][]any{
		{int64(1), int64(2), int64(3)},
	}
	got, err := Redim(values, 2, true)
	if err != nil {
		t.Fatalf("Redim failed: %v", err)
	}
	want := []any{[]any{int64(1)}, []any{int64(2)}, []any{int64(3)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Redim = %v, want %v", got, want)
	}
}

// Reducing and restoring the dimensionality of achievable shapes
// round-trips back to the original shape.
func TestRedimRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values any
		ndim   int
	}{
		{"row via 1", [][]any{{int64(1), int64(2)}}, 1},
		{"cell via 1", [][]any{{int64(9)}}, 1},
		{"cell via 0", [][]any{{int64(9)}}, 0},
		{"row via 2", []any{int64(1), int64(2)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origShape := shapeOf(tt.values)
			reduced, err := Redim(tt.values, tt.ndim, false)
			if err != nil {
				t.Fatalf("Redim failed: %v", err)
			}
			restored, err := Redim(reduced, len(origShape), false)
			if err != nil {
				t.Fatalf("Redim back failed: %v", err)
			}
			if !reflect.DeepEqual(shapeOf(restored), origShape) {
				t.Errorf("round-trip shape = %v, want %v", shapeOf(restored), origShape)
			}
		})
	}
}

func TestRedimFilterByShapeClass(t *testing.T) {
	sheet := newFakeSheet("wb.xlsx", []string{"Sheet1"}, grid33())
	r := quietRanger(sheet)

	// Rows and columns flatten to one dimension, tables stay
	// two-dimensional.
	ref := `A1:C1{"func": "redim", "args": [0, 1, 1, 1, 2]}`
	lasso, err := r.DoLasso(ref, nil)
	if err != nil {
		t.Fatalf("DoLasso failed: %v", err)
	}
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(lasso.Values, want) {
		t.Errorf("values = %v, want %v", lasso.Values, want)
	}
}
