package xlasso

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// ErrNoOpener indicates the sheets factory has no backend opener
// configured for the requested workbook.
var ErrNoOpener = errors.New("no sheet opener configured")

// ErrNoFactory indicates the reference requires a workbook but the
// ranger has no sheets factory.
var ErrNoFactory = errors.New("xl-ref specifies a workbook but ranger has no sheets-factory")

// NoCurrentSheetError indicates a reference omitted the workbook
// while no current sheet exists yet.
type NoCurrentSheetError struct{}

func (e *NoCurrentSheetError) Error() string {
	return "no current-sheet exists yet; specify a workbook"
}

// OpenError represents a sheet-resolution failure.
type OpenError struct {
	WbID    string
	SheetID string
	Err     error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("loading sheet([%s]%s) failed: %v", e.WbID, e.SheetID, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// RefError represents a non-syntax failure while resolving a parsed
// reference against its context.
type RefError struct {
	Ref string
	Err error
}

func (e *RefError) Error() string {
	return fmt.Sprintf("parsing xl-ref %q failed: %v", e.Ref, e.Err)
}

func (e *RefError) Unwrap() error {
	return e.Err
}

// CaptureError represents a geometry failure while resolving the
// capture-rect, e.g. targeting or expansion hitting a boundary.
type CaptureError struct {
	// Edges is the edges/directives part rendered in xl-ref notation.
	Edges string
	Err   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("resolving capture-rect %q failed: %v", e.Edges, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// ReadError represents a backend failure while reading the resolved
// value slab.
type ReadError struct {
	St  models.Coords
	Nd  *models.Coords
	Err error
}

func (e *ReadError) Error() string {
	nd := ""
	if e.Nd != nil {
		nd = ":" + e.Nd.String()
	}
	return fmt.Sprintf("reading rect %s%s failed: %v", e.St, nd, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// FilterError represents an unknown filter or a filter raising.
type FilterError struct {
	Spec models.CallSpec
	Err  error
	// Help carries the filter's declared description when the
	// `verbose` option is set.
	Help string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invoking filter %s failed: %v%s", e.Spec.String(), e.Err, e.Help)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// RecurseError represents a nested reference failing to resolve for
// a reason other than "not a reference".
type RecurseError struct {
	Ref string
	// Loc locates the failing leaf: enclosing sheet ids and base coords.
	Loc string
	Err error
}

func (e *RecurseError) Error() string {
	return fmt.Sprintf("lassoing nested xl-ref %q at %s stopped: %v", e.Ref, e.Loc, e.Err)
}

func (e *RecurseError) Unwrap() error {
	return e.Err
}
