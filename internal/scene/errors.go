package scene

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/scenevars/internal/nodegraph"
)

var (
	// ErrConfiguration matches every ConfigurationError through errors.Is.
	ErrConfiguration = errors.New("scene configuration error")

	// ErrGraphIntegrity matches malformed graph failures raised while
	// building. It is the same value as nodegraph.ErrGraphIntegrity.
	ErrGraphIntegrity = nodegraph.ErrGraphIntegrity
)

// ConfigurationError reports malformed Settings. It is raised before any
// traversal starts.
type ConfigurationError struct {
	// Field is the offending settings field, e.g. "Mode".
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scene configuration error, %s: %v", e.Field, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError builds a ConfigurationError for the given field.
func NewConfigurationError(field string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}
