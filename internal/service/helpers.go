package service

import (
	"errors"
	"fmt"
)

// ErrImportInvalid is wrapped by the error returned for a snapshot that
// fails validation. Nothing is written in that case.
var ErrImportInvalid = errors.New("import validation failed")

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("(%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w %s", ErrImportInvalid, msg)
}
