package client

import "fmt"

// Kind buckets every failure an API call can produce. Callers switch
// on it to decide between inline field messages, a re-login redirect,
// and a generic toast.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindBusiness
	KindNetwork
)

// Error is the single error type surfaced by the API client.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func authError(code, message string) *Error {
	return &Error{Kind: KindAuth, Code: code, Message: message}
}

func businessError(code, message string) *Error {
	if message == "" {
		message = "something went wrong, please try again"
	}
	return &Error{Kind: KindBusiness, Code: code, Message: message}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "network error", cause: err}
}

// KindOf classifies any error coming out of the client.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}
