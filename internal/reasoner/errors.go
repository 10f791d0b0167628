package reasoner

import "errors"

var (
	// ErrMalformedResponse indicates a model response that does not conform
	// to the decision protocol or is empty where text was required.
	ErrMalformedResponse = errors.New("malformed reasoning response")
	// ErrEmptyMessage indicates stage 2 produced no usable message.
	ErrEmptyMessage = errors.New("empty generated message")
)
