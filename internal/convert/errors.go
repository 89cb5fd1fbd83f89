package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad reports a missing or unparsable input model
	ErrLoad = errors.New("failed to load model")

	// ErrSerialize reports a failure writing the output mesh
	ErrSerialize = errors.New("failed to write mesh")
)

// ElementError is the failure of a single element. It never aborts a run.
type ElementError struct {
	ID   int
	Type string
	Err  error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element #%d (%s): %v", e.ID, e.Type, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
