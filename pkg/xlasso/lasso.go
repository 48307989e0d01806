// Package xlasso resolves compact textual references (xl-refs) into
// concrete rectangular regions of tabular sheets, reads the values
// and runs them through a pluggable, recursively-applicable filter
// pipeline.
package xlasso

import (
	"fmt"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// Lasso carries the state of one reference resolution, populated
// stage-by-stage by the Ranger. Stages never mutate a Lasso in
// place: each one copies the value and fills only its own fields, so
// prior snapshots stay valid for diagnostics.
type Lasso struct {
	// Ref is the full reference string, populated on parsing.
	Ref string
	// WbID is the resolved workbook locator, or "".
	WbID string
	// SheetID is the resolved sheet locator, or "".
	SheetID string
	// StEdge and NdEdge are the parsed edge descriptors.
	StEdge *models.Edge
	NdEdge *models.Edge
	// ExpMoves are the parsed expansion directives.
	ExpMoves string
	// CallSpec is the trailing filter invocation, if any.
	CallSpec *models.CallSpec
	// Sheet is the opened sheet, populated on the open stage.
	Sheet models.Sheet
	// St and Nd bound the capture-rect inclusively, populated on the
	// capture stage; Nd stays nil for open-ended references.
	St *models.Coords
	Nd *models.Coords
	// Values holds the captured values after the read stage and the
	// filtered values after each filter: a scalar, []any, [][]any or
	// whatever structure the filters produced.
	Values any
	// Base are the coordinates making relative references absolute,
	// seeded by recursive expansion.
	Base *models.Coords
	// Opts is the layered configuration of this run.
	Opts *models.Opts
}

// EdgesString renders the edges/directives part of the lasso back in
// xl-ref notation, for error messages.
func (l Lasso) EdgesString() string {
	st, nd := l.StEdge.String(), l.NdEdge.String()
	s := st
	if nd != "" || st == "" {
		s = fmt.Sprintf("%s:%s", st, nd)
	}
	if l.ExpMoves != "" {
		s += ":" + l.ExpMoves
	}
	return s
}

// Context supplies lasso fields for references that leave them
// unset, e.g. the enclosing sheet and coordinates during recursive
// expansion.
type Context struct {
	Sheet models.Sheet
	St    *models.Coords
	Nd    *models.Coords
	Base  *models.Coords
}
