package envoy

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedProbeResponse  = errors.New("unexpected probe response")
	ErrMalformedChallenge       = errors.New("malformed authentication challenge")
	ErrUnsupportedScheme        = errors.New("unsupported authentication scheme")
	ErrFetchFailed              = errors.New("fetch failed")
	ErrDecodeFailed             = errors.New("decode failed")
	ErrInvalidSizeFormat        = errors.New("invalid size format")
	ErrInvalidIntegerFormat     = errors.New("invalid integer format")
	ErrNotArray                 = errors.New("value is not an array")
	ErrMissingField             = errors.New("missing required field")
	ErrTimezoneNotResolved      = errors.New("timezone not resolved")
	ErrInvalidDeviceClockFormat = errors.New("invalid device clock format")
)

// FetchError is returned when a request to the gateway could not be
// completed or came back with a non-2xx status.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// DecodeError is returned when a response body does not have the expected
// shape, or when one of its fields fails normalization.
type DecodeError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decoding %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("decoding %s field %q: %v", e.Endpoint, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed
}
