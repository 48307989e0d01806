package xlasso

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
	"github.com/ukaji3/xlasso-go/pkg/xlasso/refparse"
)

// Filter transforms the lasso of a resolution run; registered
// filters are dispatched by name from the trailing call-spec.
type Filter func(r *Ranger, l Lasso, args []any, kwds map[string]any) (Lasso, error)

// FilterEntry pairs a filter with its help text.
type FilterEntry struct {
	Fn   Filter
	Desc string
}

// FilterMap is the static name -> filter dispatch table, populated
// at startup.
type FilterMap map[string]FilterEntry

// maxRecurseDepth caps structural descent of the recursive filter
// even when the caller asked for unlimited depth, so cyclic or
// adversarial values fail predictably instead of exhausting the
// stack.
const maxRecurseDepth = 128

// DefaultFilters returns the stock filter table: pipe, recurse,
// redim, sorted and dict.
func DefaultFilters() FilterMap {
	return FilterMap{
		"pipe": {
			Fn: func(r *Ranger, l Lasso, args []any, _ map[string]any) (Lasso, error) {
				return r.PipeFilter(l, args)
			},
			Desc: "pipe(spec, ...): apply call-specs one after another on the lasso",
		},
		"recurse": {
			Fn:   recurseFilter,
			Desc: "recurse(include, exclude, depth): expand nested xl-ref strings found in the values",
		},
		"redim": {
			Fn:   redimFilter,
			Desc: "redim(scalar, cell, row, col, table): reshape values by the capture-rect's shape class",
		},
		"sorted": {
			Fn:   sortedFilter,
			Desc: "sorted(reverse): sort a one-dimensional result",
		},
		"dict": {
			Fn:   dictFilter,
			Desc: "dict(): turn 2-column rows into a mapping",
		},
	}
}

// DefaultOpts returns the stock base options.
func DefaultOpts() map[string]any {
	return map[string]any{
		"lax":     false,
		"verbose": false,
	}
}

// makeCall dispatches one call-spec. Unknown names and filter
// failures respect the `lax` option (log and keep the lasso
// unchanged) and the `verbose` option (append the filter's
// description to the error).
func (r *Ranger) makeCall(l Lasso, spec models.CallSpec) (Lasso, error) {
	l = r.relasso(l, spec.Name)

	entry, known := r.Filters[spec.Name]
	var err error
	out := l
	if !known {
		err = fmt.Errorf("unknown filter %q", spec.Name)
	} else {
		out, err = entry.Fn(r, l, spec.Args, spec.Kwds)
	}
	if err != nil {
		help := ""
		if l.Opts.GetBool("verbose") && entry.Desc != "" {
			help = "\n  filter: " + entry.Desc
		}
		ferr := &FilterError{Spec: spec, Err: err, Help: help}
		if l.Opts.GetBool("lax") {
			r.log.Warn().Err(err).Str("filter", spec.Name).
				Msg("lax: skipping failed filter")
			return l, nil
		}
		return l, ferr
	}
	return out, nil
}

// PipeFilter applies each call-spec in sequence, threading the lasso
// through.
func (r *Ranger) PipeFilter(l Lasso, specs []any) (Lasso, error) {
	for _, raw := range specs {
		spec, err := refparse.ParseCallSpec(raw)
		if err != nil {
			return l, err
		}
		l, err = r.makeCall(l, *spec)
		if err != nil {
			return l, err
		}
	}
	return l, nil
}

func recurseFilter(r *Ranger, l Lasso, args []any, kwds map[string]any) (Lasso, error) {
	var include, exclude []string
	depth := -1
	var err error
	if len(args) > 0 {
		if include, err = asStringList(args[0]); err != nil {
			return l, fmt.Errorf("include: %w", err)
		}
	}
	if len(args) > 1 {
		if exclude, err = asStringList(args[1]); err != nil {
			return l, fmt.Errorf("exclude: %w", err)
		}
	}
	if len(args) > 2 {
		if depth, err = asInt(args[2]); err != nil {
			return l, fmt.Errorf("depth: %w", err)
		}
	}
	if v, ok := kwds["include"]; ok {
		if include, err = asStringList(v); err != nil {
			return l, fmt.Errorf("include: %w", err)
		}
	}
	if v, ok := kwds["exclude"]; ok {
		if exclude, err = asStringList(v); err != nil {
			return l, fmt.Errorf("exclude: %w", err)
		}
	}
	if v, ok := kwds["depth"]; ok {
		if depth, err = asInt(v); err != nil {
			return l, fmt.Errorf("depth: %w", err)
		}
	}
	return r.RecursiveFilter(l, include, exclude, depth)
}

// RecursiveFilter expands xl-ref strings found inside the lasso's
// values, treating them as nested structures of mappings, sequences
// and strings. Every string leaf within the inclusion policy and the
// depth budget is resolved through the full pipeline, with context
// built from the enclosing sheet and coordinates. A leaf that fails
// to parse is silently skipped; any other failure aborts the whole
// expansion.
//
// With no include/exclude every mapping key descends; include-only
// descends listed keys, exclude-only all but listed keys, both mean
// included and not excluded. Depth counts structural levels:
// negative is unlimited, 0 stops completely.
func (r *Ranger) RecursiveFilter(l Lasso, include, exclude []string, depth int) (Lasso, error) {
	d := diver{
		ranger:  r,
		lasso:   l,
		include: include,
		exclude: exclude,
		depth:   depth,
	}
	values, err := d.diveIndexed(l.Values, l.St, 0)
	if err != nil {
		return l, err
	}
	l.Values = values
	return l, nil
}

type diver struct {
	ranger           *Ranger
	lasso            Lasso
	include, exclude []string
	depth            int
}

func (d *diver) isIncluded(key string) bool {
	if len(d.include) > 0 && !contains(d.include, key) {
		return false
	}
	return !contains(d.exclude, key)
}

// newBase advances the base coordinates to an ordered element's
// position: row index at the outermost level, column one below.
func newBase(base *models.Coords, cdepth, i int) *models.Coords {
	if base == nil || cdepth > 1 {
		return base
	}
	b := *base
	if cdepth == 0 {
		b.Row = i
	} else {
		b.Col = i
	}
	return &b
}

func (d *diver) diveIndexed(v any, base *models.Coords, cdepth int) (any, error) {
	if cdepth == d.depth {
		return v, nil
	}
	if cdepth > maxRecurseDepth {
		return v, fmt.Errorf("structure deeper than %d levels", maxRecurseDepth)
	}
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, child := range m {
			if !d.isIncluded(k) {
				out[k] = child
				continue
			}
			// Mapping keys are unordered, so nested relative refs
			// cannot be located.
			sub, err := d.diveIndexed(child, nil, cdepth+1)
			if err != nil {
				return v, err
			}
			out[k] = sub
		}
		return out, nil
	}
	return d.diveList(v, base, cdepth)
}

func (d *diver) diveList(v any, base *models.Coords, cdepth int) (any, error) {
	switch vals := v.(type) {
	case string:
		return d.expandLeaf(vals, base)
	case [][]any:
		// Rows stay rows, so tabular results keep their type.
		out := make([][]any, len(vals))
		for i, row := range vals {
			sub, err := d.diveIndexed(row, newBase(base, cdepth, i), cdepth+1)
			if err != nil {
				return v, err
			}
			out[i] = sub.([]any)
		}
		return out, nil
	case []any:
		out := make([]any, len(vals))
		for i, child := range vals {
			sub, err := d.diveIndexed(child, newBase(base, cdepth, i), cdepth+1)
			if err != nil {
				return v, err
			}
			out[i] = sub
		}
		return out, nil
	}
	return v, nil
}

// expandLeaf re-invokes the whole pipeline on one string leaf.
func (d *diver) expandLeaf(ref string, base *models.Coords) (any, error) {
	l := d.lasso
	ctx := &Context{Sheet: l.Sheet, St: l.St, Nd: l.Nd, Base: base}
	sub, err := d.ranger.DoLasso(ref, ctx)
	if err != nil {
		var syntaxErr *refparse.SyntaxError
		if errors.As(err, &syntaxErr) {
			d.ranger.log.Debug().Str("leaf", ref).Err(err).
				Msg("skipping non xl-ref leaf")
			return ref, nil
		}
		return ref, &RecurseError{Ref: ref, Loc: d.loc(), Err: err}
	}
	return sub.Values, nil
}

func (d *diver) loc() string {
	loc := ""
	if d.lasso.Sheet != nil {
		wb, shs := d.lasso.Sheet.SheetIDs()
		sh := ""
		if len(shs) > 0 {
			sh = shs[0]
		}
		loc = fmt.Sprintf("[%s]%s", wb, sh)
	}
	if d.lasso.Base != nil {
		loc += "@" + d.lasso.Base.String()
	}
	if loc == "" {
		loc = "<no sheet>"
	}
	return loc
}

func sortedFilter(_ *Ranger, l Lasso, args []any, kwds map[string]any) (Lasso, error) {
	vals, ok := l.Values.([]any)
	if !ok {
		return l, fmt.Errorf("sorted wants a one-dimensional result, got %T", l.Values)
	}
	reverse := false
	if len(args) > 0 {
		b, ok := args[0].(bool)
		if !ok {
			return l, fmt.Errorf("reverse must be a bool, got %T", args[0])
		}
		reverse = b
	}
	if v, ok := kwds["reverse"]; ok {
		b, ok := v.(bool)
		if !ok {
			return l, fmt.Errorf("reverse must be a bool, got %T", v)
		}
		reverse = b
	}
	out := append([]any(nil), vals...)
	sort.SliceStable(out, func(i, j int) bool {
		if reverse {
			return lessValues(out[j], out[i])
		}
		return lessValues(out[i], out[j])
	})
	l.Values = out
	return l, nil
}

// lessValues orders numbers before strings, each kind internally.
func lessValues(a, b any) bool {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	switch {
	case aNum && bNum:
		return af < bf
	case aNum != bNum:
		return aNum
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func dictFilter(_ *Ranger, l Lasso, _ []any, _ map[string]any) (Lasso, error) {
	rows, ok := l.Values.([][]any)
	if !ok {
		return l, fmt.Errorf("dict wants 2-column rows, got %T", l.Values)
	}
	out := make(map[string]any, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return l, fmt.Errorf("dict: row %d has %d cells, want 2", i, len(row))
		}
		out[fmt.Sprint(row[0])] = row[1]
	}
	l.Values = out
	return l, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func asStringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("want strings, got %T", e)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("want a string or list of strings, got %T", v)
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	}
	return 0, fmt.Errorf("want an integer, got %T", v)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
