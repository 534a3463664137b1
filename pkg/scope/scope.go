// Package scope builds the variable scope handed to a template: process-wide
// defaults layered under per-call values.
package scope

// Scope maps template variable names to values.
type Scope = map[string]any

// Merge returns a new scope holding every entry of globals, overridden by the
// entries of overrides with the same key. Neither input is modified and the
// result is never nil.
func Merge(globals, overrides map[string]any) Scope {
	out := make(Scope, len(globals)+len(overrides))
	for key, value := range globals {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

// Clone returns a shallow copy of in, or an empty scope when in is nil.
func Clone(in map[string]any) Scope {
	return Merge(nil, in)
}
