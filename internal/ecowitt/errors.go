package ecowitt

import "fmt"

// NetworkError wraps a transport-level failure: connection, timeout, or an
// unexpected HTTP status from the vendor endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("ecowitt: network: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the response body could not be parsed as JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("ecowitt: decode: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// InvalidPayloadError means the payload parsed but did not carry the
// expected envelope. Status is the indicator the server actually sent and
// is safe to log; the request itself is never attached.
type InvalidPayloadError struct {
	Status string
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("ecowitt: invalid payload (%s): status=%q", e.Reason, e.Status)
}

// ValueConversionError is raised when a mapped value cannot be coerced to a
// number and the deployment has not opted into silent skipping. It names
// only the destination field, never the raw payload or request.
type ValueConversionError struct {
	Field string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("ecowitt: non-numeric value for field %q", e.Field)
}
