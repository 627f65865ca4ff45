package core

import "errors"

var (
	ErrUnknownModel  = errors.New("unknown model")
	ErrModelMismatch = errors.New("model does not accept images")
)

// ProviderError wraps any transport, auth or malformed-response failure from
// the completion provider. The cause is for logs, never for users.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "provider: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
