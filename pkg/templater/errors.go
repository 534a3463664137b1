package templater

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage marks caller mistakes: malformed method names, wrong argument
	// counts or argument types, and empty type tags.
	ErrUsage = errors.New("templater: usage error")
	// ErrTemplateNotFound matches every *TemplateNotFoundError via errors.Is.
	ErrTemplateNotFound = errors.New("templater: template not found")
)

// TemplateNotFoundError reports that the composed template path does not name
// a regular file.
type TemplateNotFoundError struct {
	Name string
	Type string
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	name := e.Name
	if name == "" {
		name = "*empty*"
	}
	return fmt.Sprintf("templater: template file with name %s and type %s not found at %s", name, e.Type, e.Path)
}

// Is reports whether target is ErrTemplateNotFound.
func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// IsNotFound reports whether err is, or wraps, a template-not-found fault.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}
