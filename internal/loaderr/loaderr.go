// Package loaderr defines the error kinds raised while loading the phoneme
// database and the viseme configuration.
package loaderr

import (
	"errors"
	"fmt"
)

// Kind classifies a load failure. A Kind is itself an error so callers can
// match with errors.Is(err, loaderr.DuplicateSymbol).
type Kind string

const (
	ConfigMissing            Kind = "CONFIG_MISSING"
	ConfigMalformed          Kind = "CONFIG_MALFORMED"
	UnsupportedAudioEncoding Kind = "UNSUPPORTED_AUDIO_ENCODING"
	NonMonoAudio             Kind = "NON_MONO_AUDIO"
	DuplicateSymbol          Kind = "DUPLICATE_SYMBOL"
	DuplicateViseme          Kind = "DUPLICATE_VISEME"
	DuplicateAssociation     Kind = "DUPLICATE_ASSOCIATION"
	UnknownPhoneme           Kind = "UNKNOWN_PHONEME"
	UnknownViseme            Kind = "UNKNOWN_VISEME"
	MissingDefaultViseme     Kind = "MISSING_DEFAULT_VISEME"
	NoTargetFrequencies      Kind = "NO_TARGET_FREQUENCIES"
	StoreFrozen              Kind = "STORE_FROZEN"
)

func (k Kind) Error() string { return string(k) }

// Error is a load failure with the offending subject (symbol or path).
type Error struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Subject)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches both a bare Kind and another *Error of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// New creates a new load error.
func New(kind Kind, subject, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}
