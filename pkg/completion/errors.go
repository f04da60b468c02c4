package completion

import "errors"

// Kind classifies a completion failure. Frontends switch on it to pick a
// user-facing message; tests assert on it instead of on error strings.
type Kind string

const (
	// KindMissingCredential means no API key was available before any
	// network call was attempted.
	KindMissingCredential Kind = "missing_credential"
	// KindInvalidInput means the prompt or settings were rejected locally.
	KindInvalidInput Kind = "invalid_input"
	// KindNetworkFailure covers transport failures (including timeouts) and
	// provider error statuses that carry no more specific meaning.
	KindNetworkFailure Kind = "network_failure"
	// KindQuotaExceeded means the provider refused the request for billing
	// or credit reasons.
	KindQuotaExceeded Kind = "quota_exceeded"
	// KindMalformedResponse means the provider answered success but the body
	// could not be used as a completion.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a classified completion failure.
type Error struct {
	// Kind tells frontends how to present the failure.
	Kind Kind
	// Status is the HTTP status code when the failure came from a provider
	// response, 0 otherwise.
	Status int
	// Msg is a short human-readable description.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	return e.Err
}

// MissingCredential returns an [Error] of kind [KindMissingCredential].
func MissingCredential(msg string) *Error {
	return &Error{Kind: KindMissingCredential, Msg: msg}
}

// InvalidInput returns an [Error] of kind [KindInvalidInput].
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

// NetworkFailure returns an [Error] of kind [KindNetworkFailure]. Pass
// status 0 when the request never reached the provider.
func NetworkFailure(status int, msg string, err error) *Error {
	return &Error{Kind: KindNetworkFailure, Status: status, Msg: msg, Err: err}
}

// QuotaExceeded returns an [Error] of kind [KindQuotaExceeded].
func QuotaExceeded(status int, msg string) *Error {
	return &Error{Kind: KindQuotaExceeded, Status: status, Msg: msg}
}

// MalformedResponse returns an [Error] of kind [KindMalformedResponse].
func MalformedResponse(msg string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Msg: msg, Err: err}
}

// KindOf returns the [Kind] carried by err. Errors that never went through
// this package's classification report [KindNetworkFailure], matching how
// raw transport failures surface.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}

	return KindNetworkFailure
}

// StatusOf returns the HTTP status attached to err, or 0 when err carries
// none.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}

	return 0
}
