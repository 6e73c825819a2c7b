package api

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// Kind classifies a failure so every caller presents it the same way.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAPI        Kind = "api"
	KindValidation Kind = "validation"
	KindDecode     Kind = "decode"
	KindCanceled   Kind = "canceled"
	KindTimeout    Kind = "timeout"
	KindUnknown    Kind = "unknown"
)

const defaultMessage = "Something went wrong"

type Error struct {
	Kind    Kind   `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a client-side rejection raised before any network call.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Normalize turns any error into an *Error. fallback is used when the error carries no usable message.
func Normalize(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	if fallback == "" {
		fallback = defaultMessage
	}

	var ae *Error
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae
		}
		cp := *ae
		cp.Message = fallback
		return &cp
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: "Request timed out", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Message: "Request was canceled", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return &Error{Kind: KindNetwork, Message: fallback, Err: err}
	}

	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// KindOf reports the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Normalize(err, "").Kind
}

func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
