package xlasso

import (
	"fmt"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// Shape classes of a resolved capture-rect.
const (
	shapeOpenEnded = iota // only the 1st coordinate given
	shapeCell             // both coordinates point the same cell
	shapeRow
	shapeCol
	shapeTable
)

// classifyRectShape identifies the rect's shape class from its
// inclusive edge coordinates.
func classifyRectShape(st models.Coords, nd *models.Coords) int {
	if nd == nil {
		return shapeOpenEnded
	}
	shape := shapeCell
	if nd.Col != st.Col {
		shape += 1
	}
	if nd.Row != st.Row {
		shape += 2
	}
	return shape
}

// shapeOf reports the nested-slice dimensions of the values; a
// scalar has none.
func shapeOf(v any) []int {
	var shape []int
	for {
		switch t := v.(type) {
		case []any:
			shape = append(shape, len(t))
			if len(t) == 0 {
				return shape
			}
			v = t[0]
		case [][]any:
			shape = append(shape, len(t))
			if len(t) == 0 {
				return shape
			}
			v = t[0]
		default:
			return shape
		}
	}
}

func flattenValues(v any, out []any) []any {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			out = flattenValues(e, out)
		}
	case [][]any:
		for _, e := range t {
			out = flattenValues(e, out)
		}
	default:
		out = append(out, v)
	}
	return out
}

// buildNested rebuilds a nested []any structure of the given shape
// from a flat element list; an empty shape yields the bare scalar.
func buildNested(flat []any, shape []int) any {
	if len(shape) == 0 {
		return flat[0]
	}
	n := shape[0]
	if len(shape) == 1 {
		out := make([]any, n)
		copy(out, flat)
		return out
	}
	stride := 1
	for _, d := range shape[1:] {
		stride *= d
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = buildNested(flat[i*stride:(i+1)*stride], shape[1:])
	}
	return out
}

// updim pads the shape with leading size-1 dimensions.
func updim(v any, newNdim int) any {
	shape := shapeOf(v)
	flat := flattenValues(v, nil)
	padded := make([]int, newNdim-len(shape))
	for i := range padded {
		padded[i] = 1
	}
	return buildNested(flat, append(padded, shape...))
}

// downdim squeezes trivial (size-1) axes toward the target
// dimensionality: more excess than trivial axes flattens entirely,
// an exact match squeezes them all, otherwise trivial axes drop one
// at a time until the excess is gone.
func downdim(v any, newNdim int) any {
	shape := shapeOf(v)
	flat := flattenValues(v, nil)
	offset := len(shape) - newNdim

	var trivial []int
	for i, d := range shape {
		if d == 1 {
			trivial = append(trivial, i)
		}
	}

	switch {
	case offset > len(trivial):
		return buildNested(flat, []int{len(flat)})
	case offset == len(trivial):
		var kept []int
		for _, d := range shape {
			if d != 1 {
				kept = append(kept, d)
			}
		}
		return buildNested(flat, kept)
	default:
		kept := append([]int(nil), shape...)
		for i := 0; i < offset; i++ {
			kept = append(kept[:trivial[i]-i], kept[trivial[i]-i+1:]...)
		}
		return buildNested(flat, kept)
	}
}

func transposeValues(v any) (any, error) {
	shape := shapeOf(v)
	if len(shape) < 2 {
		return v, nil
	}
	if len(shape) > 2 {
		return v, fmt.Errorf("cannot transpose %d-dimensional values", len(shape))
	}
	rows, cols := shape[0], shape[1]
	flat := flattenValues(v, nil)
	out := make([]any, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = flat[r*cols+c]
		}
	}
	return buildNested(out, []int{cols, rows}), nil
}

// Redim adjusts the dimensionality of captured values, transposing
// first when asked.
func Redim(v any, newNdim int, transpose bool) (any, error) {
	if transpose {
		var err error
		if v, err = transposeValues(v); err != nil {
			return v, err
		}
	}
	cur := len(shapeOf(v))
	switch {
	case cur < newNdim:
		return updim(v, newNdim), nil
	case cur > newNdim:
		return downdim(v, newNdim), nil
	}
	return v, nil
}

// redimFilter reshapes the values depending on the capture-rect's
// shape class. Each class argument is nil for "no change", a target
// dimensionality, or a [dims, transpose] pair.
func redimFilter(_ *Ranger, l Lasso, args []any, kwds map[string]any) (Lasso, error) {
	classArgs := make([]any, 5)
	copy(classArgs, args)
	for i, name := range []string{"scalar", "cell", "row", "col", "table"} {
		if v, ok := kwds[name]; ok {
			classArgs[i] = v
		}
	}

	arg := classArgs[classifyRectShape(*l.St, l.Nd)]
	if arg == nil {
		return l, nil
	}
	ndim, transpose, err := parseDimArg(arg)
	if err != nil {
		return l, err
	}
	values, err := Redim(l.Values, ndim, transpose)
	if err != nil {
		return l, err
	}
	l.Values = values
	return l, nil
}

func parseDimArg(arg any) (ndim int, transpose bool, err error) {
	if pair, ok := arg.([]any); ok {
		if len(pair) != 2 {
			return 0, false, fmt.Errorf("dimension pair wants [dims, transpose], got %v", pair)
		}
		ndim, err = asInt(pair[0])
		if err != nil {
			return 0, false, err
		}
		transpose, ok = pair[1].(bool)
		if !ok {
			return 0, false, fmt.Errorf("transpose flag must be a bool, got %T", pair[1])
		}
		return ndim, transpose, nil
	}
	ndim, err = asInt(arg)
	return ndim, false, err
}
