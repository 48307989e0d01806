package xlasso

import (
	"errors"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// Opener resolves a (workbook, sheet) id pair into an open sheet via
// some backend, e.g. the excelize backend in pkg/xlasso/xlsx.
type Opener func(wbID, sheetID string, opts *models.Opts) (models.Sheet, error)

type sheetKey struct {
	wb string
	sh string
}

// SheetsFactory is a caching store of open sheets keyed by
// (workbook-id, sheet-id) pairs. One sheet is reachable via every
// alias it reports (name, index, caller extras), and the last sheet
// added is the *current* sheet, served when a reference names no
// workbook at all.
//
// Pre-populate it with AddSheet to avoid re-opening costly
// workbooks. Access is single-writer: callers running concurrent
// lassos must serialize on the factory or use one per worker.
type SheetsFactory struct {
	opener  Opener
	byKey   map[sheetKey]models.Sheet
	keysOf  map[models.Sheet][]sheetKey
	current models.Sheet
}

// NewSheetsFactory returns an empty factory opening workbooks via
// `opener`; a nil opener limits the factory to pre-added sheets.
func NewSheetsFactory(opener Opener) *SheetsFactory {
	return &SheetsFactory{
		opener: opener,
		byKey:  make(map[sheetKey]models.Sheet),
		keysOf: make(map[models.Sheet][]sheetKey),
	}
}

// deriveKeys returns the cross-product of the sheet's own ids and
// the caller-supplied extras, skipping empty workbook ids.
func (f *SheetsFactory) deriveKeys(sheet models.Sheet, wbIDs, shIDs []string) []sheetKey {
	wb, shs := sheet.SheetIDs()
	allWbs := append([]string{wb}, wbIDs...)
	allShs := append(append([]string{}, shs...), shIDs...)

	seen := make(map[sheetKey]bool)
	var keys []sheetKey
	for _, w := range allWbs {
		if w == "" {
			continue
		}
		for _, s := range allShs {
			k := sheetKey{w, s}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// evict closes `sheet` and purges it from every key pointing at it.
func (f *SheetsFactory) evict(sheet models.Sheet) error {
	err := sheet.Close()
	for _, k := range f.keysOf[sheet] {
		if f.byKey[k] == sheet {
			delete(f.byKey, k)
		}
	}
	delete(f.keysOf, sheet)
	if f.current == sheet {
		f.current = nil
	}
	return err
}

// AddSheet registers `sheet` under the cross-product of its own ids
// and the supplied extras, and makes it the current sheet. A
// different sheet already occupying one of the keys is closed and
// purged from all its keys first.
func (f *SheetsFactory) AddSheet(sheet models.Sheet, extraWbIDs, extraSheetIDs []string) {
	f.addSheet(sheet, extraWbIDs, extraSheetIDs, false)
}

// AddSheetNoCurrent is AddSheet without touching the current sheet.
func (f *SheetsFactory) AddSheetNoCurrent(sheet models.Sheet, extraWbIDs, extraSheetIDs []string) {
	f.addSheet(sheet, extraWbIDs, extraSheetIDs, true)
}

func (f *SheetsFactory) addSheet(sheet models.Sheet, extraWbIDs, extraSheetIDs []string, noCurrent bool) {
	keys := f.deriveKeys(sheet, extraWbIDs, extraSheetIDs)
	for _, k := range keys {
		if old, ok := f.byKey[k]; ok {
			if old == sheet {
				continue
			}
			f.evict(old)
		}
		f.byKey[k] = sheet
		f.keysOf[sheet] = append(f.keysOf[sheet], k)
	}
	if !noCurrent {
		f.current = sheet
	}
}

// CloseSheet closes and purges the sheet cached under the given id
// pair, if any.
func (f *SheetsFactory) CloseSheet(wbID, sheetID string) error {
	if sheet, ok := f.byKey[sheetKey{wbID, sheetID}]; ok {
		return f.evict(sheet)
	}
	return nil
}

// CurrentSheet returns the current sheet, or a NoCurrentSheetError.
func (f *SheetsFactory) CurrentSheet() (models.Sheet, error) {
	if f.current == nil {
		return nil, &NoCurrentSheetError{}
	}
	return f.current, nil
}

// FetchSheet serves the sheet for an id pair. An empty workbook id
// addresses the current sheet's workbook: empty sheet id returns the
// current sheet itself, a different sheet id is looked up in the
// cache or opened as a sibling of the current sheet. A non-empty
// workbook id hits the cache or the backend opener.
func (f *SheetsFactory) FetchSheet(wbID, sheetID string, opts *models.Opts) (models.Sheet, error) {
	if wbID == "" {
		csheet := f.current
		if csheet == nil {
			return nil, &NoCurrentSheetError{}
		}
		if sheetID == "" {
			return csheet, nil
		}
		wb, _ := csheet.SheetIDs()
		if sheet, ok := f.byKey[sheetKey{wb, sheetID}]; ok {
			return sheet, nil
		}
		sheet, err := csheet.OpenSiblingSheet(sheetID, opts)
		if err != nil {
			return nil, &OpenError{WbID: wb, SheetID: sheetID, Err: err}
		}
		f.AddSheet(sheet, []string{wb}, []string{sheetID})
		return sheet, nil
	}

	if sheet, ok := f.byKey[sheetKey{wbID, sheetID}]; ok {
		return sheet, nil
	}
	if f.opener == nil {
		return nil, &OpenError{WbID: wbID, SheetID: sheetID, Err: ErrNoOpener}
	}
	sheet, err := f.opener(wbID, sheetID, opts)
	if err != nil {
		return nil, &OpenError{WbID: wbID, SheetID: sheetID, Err: err}
	}
	f.AddSheet(sheet, []string{wbID}, []string{sheetID})
	return sheet, nil
}

// Close closes every distinct cached sheet exactly once and empties
// the cache and the current sheet.
func (f *SheetsFactory) Close() error {
	var errs []error
	for sheet := range f.keysOf {
		if err := sheet.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.byKey = make(map[sheetKey]models.Sheet)
	f.keysOf = make(map[models.Sheet][]sheetKey)
	f.current = nil
	return errors.Join(errs...)
}
