package models

// Opts is the layered configuration threaded through a lasso run:
// an ordered stack of option mappings where the most recently pushed
// layer wins on lookup, falling through to outer layers. Layers are
// never flattened, so options parsed out of a reference string can
// shadow base options without mutating the shared base mapping.
type Opts struct {
	layers []map[string]any
}

// NewOpts returns layered options with `base` as the outermost layer.
// A nil base yields an empty (still pushable) stack.
func NewOpts(base map[string]any) *Opts {
	o := &Opts{}
	if base != nil {
		o.layers = append(o.layers, base)
	}
	return o
}

// Push adds a new highest-precedence layer.
func (o *Opts) Push(layer map[string]any) {
	if layer == nil {
		return
	}
	o.layers = append(o.layers, layer)
}

// Get looks `key` up newest-layer first.
func (o *Opts) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for i := len(o.layers) - 1; i >= 0; i-- {
		if v, ok := o.layers[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetBool returns the boolean value of `key`, or false when unset or
// not a bool.
func (o *Opts) GetBool(key string) bool {
	v, ok := o.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Flat merges all layers into a fresh map, outermost first, for
// callers needing a point-in-time snapshot (e.g. diagnostics).
func (o *Opts) Flat() map[string]any {
	m := make(map[string]any)
	if o == nil {
		return m
	}
	for _, layer := range o.layers {
		for k, v := range layer {
			m[k] = v
		}
	}
	return m
}
