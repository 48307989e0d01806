// Package refparse implements the xl-ref grammar, turning reference
// strings into the structured fields consumed by the resolution
// pipeline:
//
//	<workbook>#<sheet>!<st-edge>:<nd-edge>:<expand><call-spec>
//
// e.g.
//
//	file.xlsx#Sheet1!A1(RD):C3(LU):LD{"func": "redim", "kwds": {"row": 2}}
//
// Edge row/column tokens are absolute ("A1"), used-range margins
// ("^" first, "_" last) or base-relative ("."); edges take optional
// targeting moves in parentheses. The trailing call-spec is JSON in
// one of the forms accepted by ParseCallSpec.
package refparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// SyntaxError indicates a malformed xl-ref. It is always fatal:
// strict and lax modes alike refuse to resolve what does not parse,
// though recursive expansion treats it as "not a reference".
type SyntaxError struct {
	Ref string
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("not an xl-ref %q: %s", e.Ref, e.Msg)
}

const (
	colPat   = `[A-Za-z]+|[_^.]`
	rowPat   = `[1-9][0-9]*|[_^.]`
	movesPat = `[LURDlurd]+`
)

var xlrefRe = regexp.MustCompile(
	`^\s*` +
		`(?:(?P<wb>[^#!]*)#)?` +
		`(?:(?P<sheet>[^!{\[]*)!)?` +
		`(?P<stcol>` + colPat + `)(?P<strow>` + rowPat + `)` +
		`(?:\((?P<stmov>` + movesPat + `)\))?` +
		`(?::(?P<ndcol>` + colPat + `)(?P<ndrow>` + rowPat + `)` +
		`(?:\((?P<ndmov>` + movesPat + `)\))?` +
		`(?::(?P<exp>(?:[LURDlurd][0-9]*)+))?` +
		`)?` +
		`\s*(?P<js>[{\[].*)?\s*$`)

// Parse turns an xl-ref string into its structured fields, or a
// *SyntaxError when the string does not match the grammar.
func Parse(ref string) (*models.ParsedFields, error) {
	m := xlrefRe.FindStringSubmatch(ref)
	if m == nil {
		return nil, &SyntaxError{Ref: ref, Msg: "no match against the xl-ref grammar"}
	}
	g := func(name string) string {
		return m[xlrefRe.SubexpIndex(name)]
	}

	f := &models.ParsedFields{
		WbID:    strings.TrimSpace(g("wb")),
		SheetID: strings.TrimSpace(g("sheet")),
	}

	st, err := parseEdge(g("stcol"), g("strow"), g("stmov"))
	if err != nil {
		return nil, &SyntaxError{Ref: ref, Msg: err.Error()}
	}
	f.StEdge = st

	if g("ndcol") != "" {
		nd, err := parseEdge(g("ndcol"), g("ndrow"), g("ndmov"))
		if err != nil {
			return nil, &SyntaxError{Ref: ref, Msg: err.Error()}
		}
		f.NdEdge = nd
	}
	f.ExpMoves = strings.ToUpper(g("exp"))

	if js := g("js"); js != "" {
		spec, opts, err := parseJSONTail(js)
		if err != nil {
			return nil, &SyntaxError{Ref: ref, Msg: err.Error()}
		}
		f.CallSpec = spec
		f.Opts = opts
	}

	return f, nil
}

func parseEdge(colTok, rowTok, moves string) (*models.Edge, error) {
	col, err := parseAxis(colTok, true)
	if err != nil {
		return nil, err
	}
	row, err := parseAxis(rowTok, false)
	if err != nil {
		return nil, err
	}
	return &models.Edge{Row: row, Col: col, Moves: strings.ToUpper(moves)}, nil
}

func parseAxis(tok string, isCol bool) (models.AxisRef, error) {
	switch tok {
	case "^":
		return models.AxisRef{Kind: models.RefMarginMin}, nil
	case "_":
		return models.AxisRef{Kind: models.RefMarginMax}, nil
	case ".":
		return models.AxisRef{Kind: models.RefBase}, nil
	}
	if isCol {
		idx, err := models.ColIndex(strings.ToUpper(tok))
		if err != nil {
			return models.AxisRef{}, err
		}
		return models.AxisRef{Kind: models.RefAbs, Index: idx}, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 {
		return models.AxisRef{}, fmt.Errorf("invalid row token %q", tok)
	}
	return models.AxisRef{Kind: models.RefAbs, Index: n - 1}, nil
}

// parseJSONTail decodes the trailing call-spec/options JSON.
func parseJSONTail(js string) (*models.CallSpec, map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		return nil, nil, fmt.Errorf("invalid call-spec JSON %q: %v", js, err)
	}
	if obj, ok := v.(map[string]any); ok {
		var opts map[string]any
		if rawOpts, ok := obj["opts"]; ok {
			opts, ok = rawOpts.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf(`"opts" must be an object, got %T`, rawOpts)
			}
		}
		if _, hasFunc := obj["func"]; !hasFunc {
			if opts == nil {
				return nil, nil, fmt.Errorf(`call-spec object %q needs a "func" or "opts" key`, js)
			}
			return nil, opts, nil
		}
		spec, err := ParseCallSpec(v)
		return spec, opts, err
	}
	spec, err := ParseCallSpec(v)
	return spec, nil, err
}
