package models

import (
	"encoding/json"
	"fmt"
)

// CallSpec describes one trailing filter invocation of an xl-ref:
// a registered filter name with positional and keyword arguments.
// Args of the "pipe" filter are themselves call-spec values, so
// specs nest recursively.
type CallSpec struct {
	Name string
	Args []any
	Kwds map[string]any
}

// String renders the spec for error messages.
func (c *CallSpec) String() string {
	if c == nil {
		return ""
	}
	args, _ := json.Marshal(c.Args)
	kwds, _ := json.Marshal(c.Kwds)
	return fmt.Sprintf("%s(%s, %s)", c.Name, args, kwds)
}
