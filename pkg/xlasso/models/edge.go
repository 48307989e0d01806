package models

import (
	"fmt"
	"strconv"
)

// RefKind discriminates how a single row or column reference of an
// edge is resolved into an absolute index.
type RefKind int

const (
	// RefAbs is an absolute zero-based index (from "A1"-style tokens).
	RefAbs RefKind = iota
	// RefMarginMin resolves to the first used row/column ("^" token).
	RefMarginMin
	// RefMarginMax resolves to the last used row/column ("_" token).
	RefMarginMax
	// RefBase resolves against the base coordinates ("." token):
	// the context cell for the first edge, the resolved first edge
	// for the second.
	RefBase
)

// AxisRef is one row or column reference of an edge.
type AxisRef struct {
	Kind RefKind
	// Index is the absolute zero-based index, meaningful for RefAbs only.
	Index int
}

// Edge is one corner descriptor of the target rectangle: a cell
// reference plus optional targeting moves walked until the first
// non-empty cell.
type Edge struct {
	Row   AxisRef
	Col   AxisRef
	Moves string
}

// String renders the edge back in xl-ref notation, for diagnostics.
func (e *Edge) String() string {
	if e == nil {
		return ""
	}
	s := axisToken(e.Col, true) + axisToken(e.Row, false)
	if e.Moves != "" {
		s += "(" + e.Moves + ")"
	}
	return s
}

func axisToken(r AxisRef, isCol bool) string {
	switch r.Kind {
	case RefMarginMin:
		return "^"
	case RefMarginMax:
		return "_"
	case RefBase:
		return "."
	}
	if isCol {
		return ColName(r.Index)
	}
	return strconv.Itoa(r.Index + 1)
}

// ColName converts a zero-based column index to its letter name
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColName(idx int) string {
	name := ""
	for n := idx + 1; n > 0; {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// ColIndex converts a column letter name to its zero-based index.
func ColIndex(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	idx := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1, nil
}
