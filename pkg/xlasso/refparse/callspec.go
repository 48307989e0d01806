package refparse

import (
	"fmt"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// ParseCallSpec normalizes a decoded call-spec value into a
// CallSpec. Accepted forms:
//
//	"name"                                  no arguments
//	["name", arg1, arg2, ...]               positional arguments
//	["name", [args...], {kwds...}]          both kinds
//	{"func": "name", "args": [...], "kwds": {...}}
//
// Args of the "pipe" filter go through this again, so specs nest.
func ParseCallSpec(v any) (*models.CallSpec, error) {
	switch spec := v.(type) {
	case string:
		if spec == "" {
			return nil, fmt.Errorf("empty filter name")
		}
		return &models.CallSpec{Name: spec}, nil

	case []any:
		if len(spec) == 0 {
			return nil, fmt.Errorf("empty call-spec list")
		}
		name, ok := spec[0].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("call-spec list needs a filter name first, got %v", spec[0])
		}
		// The [name, [args...], {kwds...}] form is recognized only
		// with that exact shape; anything else is all-positional.
		if len(spec) == 3 {
			if args, ok := spec[1].([]any); ok {
				if kwds, ok := spec[2].(map[string]any); ok {
					return &models.CallSpec{Name: name, Args: args, Kwds: kwds}, nil
				}
			}
		}
		return &models.CallSpec{Name: name, Args: spec[1:]}, nil

	case map[string]any:
		name, ok := spec["func"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf(`call-spec object needs a "func" name`)
		}
		cs := &models.CallSpec{Name: name}
		if rawArgs, ok := spec["args"]; ok {
			args, ok := rawArgs.([]any)
			if !ok {
				return nil, fmt.Errorf(`"args" must be a list, got %T`, rawArgs)
			}
			cs.Args = args
		}
		if rawKwds, ok := spec["kwds"]; ok {
			kwds, ok := rawKwds.(map[string]any)
			if !ok {
				return nil, fmt.Errorf(`"kwds" must be an object, got %T`, rawKwds)
			}
			cs.Kwds = kwds
		}
		return cs, nil
	}
	return nil, fmt.Errorf("cannot parse call-spec from %T", v)
}
