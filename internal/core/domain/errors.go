package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrProvider         = errors.New("classification provider failure")
	ErrProviderQuota    = errors.New("classification provider quota exceeded")
	ErrParse            = errors.New("unparsable model output")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
