// Package template defines the renderer seam used by the template loader: a
// renderer executes one template file with an explicit variable scope and
// writes the result to an io.Writer.
package template
