package xlasso

import (
	"github.com/ukaji3/xlasso-go/pkg/xlasso/xlsx"
)

// MakeDefaultRanger returns a Ranger with the stock choices for
// whatever is nil: a fresh factory over the xlsx backend, the
// default options and the default filters. Remember to Close a
// factory the caller lets it create.
func MakeDefaultRanger(factory *SheetsFactory, baseOpts map[string]any, filters FilterMap) *Ranger {
	if factory == nil {
		factory = NewSheetsFactory(xlsx.OpenSheet)
	}
	if baseOpts == nil {
		baseOpts = DefaultOpts()
	}
	if filters == nil {
		filters = DefaultFilters()
	}
	return NewRanger(factory, baseOpts, filters)
}

// DoOptions parameterizes the package-level entry points. All fields
// are optional.
type DoOptions struct {
	// Factory caches open sheets across calls; when nil a throwaway
	// factory over the xlsx backend is created and fully closed
	// before returning.
	Factory *SheetsFactory
	// BaseOpts override the default base options.
	BaseOpts map[string]any
	// Filters override the default filter table.
	Filters FilterMap
	// Context supplies lasso fields the reference leaves unset.
	Context *Context
}

// Do resolves one xl-ref end-to-end and returns the final lasso.
func Do(ref string, o *DoOptions) (Lasso, error) {
	if o == nil {
		o = &DoOptions{}
	}
	factoryIsMine := o.Factory == nil
	ranger := MakeDefaultRanger(o.Factory, o.BaseOpts, o.Filters)
	if factoryIsMine {
		defer ranger.Factory.Close()
	}
	return ranger.DoLasso(ref, o.Context)
}

// Values resolves one xl-ref and returns just the captured and
// filtered values.
func Values(ref string, o *DoOptions) (any, error) {
	l, err := Do(ref, o)
	if err != nil {
		return nil, err
	}
	return l.Values, nil
}
