package entities

import "fmt"

// ExtractionError reports that one record family could not be parsed from an
// otherwise valid archive. The orchestrator logs it and continues with the
// remaining families.
type ExtractionError struct {
	Family string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Family, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError wraps err as a family-scoped extraction failure.
func NewExtractionError(family string, err error) *ExtractionError {
	return &ExtractionError{Family: family, Err: err}
}

// IntegrityError reports a write that would break a uniqueness or
// foreign-key invariant. The whole archive's transaction is rolled back.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity violation: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
