package predictor

import "errors"

var (
	// ErrUnknownCategory is returned when a region or response label is not
	// part of the fitted vocabulary. The classifier is never invoked.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnmappedLabel means the classifier produced a code or label with no
	// description. This is a consistency violation between the artifacts.
	ErrUnmappedLabel = errors.New("unmapped label")

	// ErrInvalidInput wraps boundary validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
