package template

import "fmt"

// FormatError reports a malformed or incomplete template document.
// The structure could not be mapped onto the model at all.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("template format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidationError reports a structurally well-formed template that
// violates a model invariant (duplicate ids, out-of-range keyframe,
// frame count mismatch, unparseable color). Nothing is auto-repaired.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template validation: %s", e.Reason)
}
