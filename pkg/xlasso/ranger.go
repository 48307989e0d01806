package xlasso

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/tiendc/go-deepcopy"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/capture"
	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
	"github.com/ukaji3/xlasso-go/pkg/xlasso/refparse"
)

// ParseFunc is the grammar collaborator: one parse operation
// returning structured fields or a syntax error.
type ParseFunc func(ref string) (*models.ParsedFields, error)

// CaptureFunc is the geometry collaborator resolving edges plus
// expansion directives into the absolute capture-rect.
type CaptureFunc func(states [][]bool, marginMin, marginMax models.Coords,
	st, nd *models.Edge, expMoves string, base *models.Coords) (models.Coords, *models.Coords, error)

// Ranger runs the resolution pipeline: parse the reference, open the
// target sheet, resolve the capture-rect, read the values and
// dispatch the trailing filters. It owns the base options and the
// filter registry, shared across every lasso it produces, including
// recursive sub-lassos.
type Ranger struct {
	// Factory caches open sheets; may be nil when every lasso is
	// invoked with a context sheet.
	Factory *SheetsFactory
	// BaseOpts are deep-copied into the outermost configuration
	// layer of every DoLasso call.
	BaseOpts map[string]any
	// Filters is the name -> filter dispatch table.
	Filters FilterMap
	// Parse and Capture are the external collaborators; NewRanger
	// wires the bundled implementations.
	Parse   ParseFunc
	Capture CaptureFunc

	log zerolog.Logger

	// Diagnostic pair: the stage name and lasso snapshot of the last
	// completed pipeline transition.
	lastStage string
	lastLasso Lasso
}

// NewRanger returns a Ranger over the given factory, base options
// and filters, with the bundled grammar and geometry collaborators.
// Nil baseOpts or filters mean "none"; see DefaultOpts and
// DefaultFilters for the stock choices.
func NewRanger(factory *SheetsFactory, baseOpts map[string]any, filters FilterMap) *Ranger {
	return &Ranger{
		Factory:  factory,
		BaseOpts: baseOpts,
		Filters:  filters,
		Parse:    refparse.Parse,
		Capture:  capture.ResolveCaptureRect,
		log:      zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// SetLogger replaces the ranger's logger.
func (r *Ranger) SetLogger(log zerolog.Logger) {
	r.log = log
}

// Intermediate returns the stage name and lasso snapshot of the last
// completed pipeline transition, for inspecting failed runs.
func (r *Ranger) Intermediate() (stage string, lasso Lasso) {
	return r.lastStage, r.lastLasso
}

// relasso records the stage transition and returns the lasso as-is;
// callers fill their own fields on a copy beforehand.
func (r *Ranger) relasso(l Lasso, stage string) Lasso {
	r.lastStage, r.lastLasso = stage, l
	return l
}

func (r *Ranger) initLasso(ctx *Context) (Lasso, error) {
	var base map[string]any
	if r.BaseOpts != nil {
		if err := deepcopy.Copy(&base, r.BaseOpts); err != nil {
			return Lasso{}, fmt.Errorf("copying base opts: %w", err)
		}
	}
	l := Lasso{Opts: models.NewOpts(base)}
	if ctx != nil {
		l.Sheet = ctx.Sheet
		l.St = ctx.St
		l.Nd = ctx.Nd
		l.Base = ctx.Base
	}
	return l, nil
}

func (r *Ranger) parseAndMerge(ref string, l Lasso) (Lasso, error) {
	fields, err := r.Parse(ref)
	if err != nil {
		var syntaxErr *refparse.SyntaxError
		if errors.As(err, &syntaxErr) {
			return l, err
		}
		return l, &RefError{Ref: ref, Err: err}
	}

	l.Ref = ref
	if fields.Opts != nil {
		l.Opts.Push(fields.Opts)
	}
	if fields.WbID != "" {
		l.WbID = fields.WbID
	}
	if fields.SheetID != "" {
		l.SheetID = fields.SheetID
	}
	if fields.StEdge != nil {
		l.StEdge = fields.StEdge
	}
	if fields.NdEdge != nil {
		l.NdEdge = fields.NdEdge
	}
	if fields.ExpMoves != "" {
		l.ExpMoves = fields.ExpMoves
	}
	if fields.CallSpec != nil {
		l.CallSpec = fields.CallSpec
	}
	return l, nil
}

// openSheet serves the target sheet: a context sheet naming no other
// workbook is reused directly or asked for a cheaper sibling open;
// everything else goes through the factory.
func (r *Ranger) openSheet(l Lasso) (models.Sheet, error) {
	if l.Sheet != nil && l.WbID == "" {
		if l.SheetID == "" {
			return l.Sheet, nil
		}
		sheet, err := l.Sheet.OpenSiblingSheet(l.SheetID, l.Opts)
		if err != nil {
			wb, _ := l.Sheet.SheetIDs()
			return nil, &OpenError{WbID: wb, SheetID: l.SheetID, Err: err}
		}
		if r.Factory != nil {
			r.Factory.AddSheet(sheet, nil, []string{l.SheetID})
		}
		return sheet, nil
	}

	if r.Factory == nil {
		return nil, &OpenError{WbID: l.WbID, SheetID: l.SheetID, Err: ErrNoFactory}
	}
	return r.Factory.FetchSheet(l.WbID, l.SheetID, l.Opts)
}

// DoLasso resolves one xl-ref through the full pipeline and returns
// the final lasso. Context fields fill in whatever the parsed
// reference leaves unset; recursive expansion uses that to thread
// the enclosing sheet and coordinates through.
func (r *Ranger) DoLasso(ref string, ctx *Context) (Lasso, error) {
	r.lastStage, r.lastLasso = "", Lasso{}

	l, err := r.initLasso(ctx)
	if err != nil {
		return l, err
	}
	l = r.relasso(l, "context")

	l, err = r.parseAndMerge(ref, l)
	if err != nil {
		return l, err
	}
	l = r.relasso(l, "parse")

	sheet, err := r.openSheet(l)
	if err != nil {
		return l, err
	}
	l.Sheet = sheet
	l = r.relasso(l, "open")

	marginMin, marginMax := sheet.MarginCoords()
	st, nd, err := r.Capture(sheet.StatesMatrix(), marginMin, marginMax,
		l.StEdge, l.NdEdge, l.ExpMoves, l.Base)
	if err != nil {
		return l, &CaptureError{Edges: l.EdgesString(), Err: err}
	}
	l.St, l.Nd = &st, nd
	l = r.relasso(l, "capture")

	values, err := sheet.ReadRect(st, nd)
	if err != nil {
		return l, &ReadError{St: st, Nd: nd, Err: err}
	}
	l.Values = values
	l = r.relasso(l, "read")

	if l.CallSpec != nil {
		l, err = r.makeCall(l, *l.CallSpec)
		if err != nil {
			return l, err
		}
	}
	return l, nil
}
