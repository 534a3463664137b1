package template

import (
	"io"
)

// Renderer executes a template file with the provided scope. Implementations
// write to out only when execution succeeds and return execution failures
// as-is so callers can inspect them.
type Renderer interface {
	RenderFile(path string, data map[string]any, out io.Writer) error
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(path string, data map[string]any, out io.Writer) error

// RenderFile calls f(path, data, out).
func (f RendererFunc) RenderFile(path string, data map[string]any, out io.Writer) error {
	return f(path, data, out)
}
