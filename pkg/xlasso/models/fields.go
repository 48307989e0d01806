package models

// ParsedFields is what the reference-string grammar yields: any
// subset of the lasso fields, nil/empty where the reference left a
// part unspecified so that context values survive the merge.
type ParsedFields struct {
	// WbID is the workbook locator (file path or URL), or "".
	WbID string
	// SheetID is the sheet locator (name or index as text), or "".
	SheetID string
	// StEdge is the first edge descriptor.
	StEdge *Edge
	// NdEdge is the second edge descriptor; nil for open-ended refs.
	NdEdge *Edge
	// ExpMoves are the expansion directives (L/U/R/D letters, each
	// with an optional repeat count).
	ExpMoves string
	// CallSpec is the trailing filter invocation, if any.
	CallSpec *CallSpec
	// Opts is an options mapping parsed from the reference, pushed
	// as a higher-precedence configuration layer.
	Opts map[string]any
}
