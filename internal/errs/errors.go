// Package errs holds the tagged error type returned by every upload subsystem.
//
// Validation and quota errors carry a message key that is safe to show to the
// uploader. Transform, store-write and settings-fetch errors are operational:
// the caller gets an opaque message and the cause is only logged.
package errs

import (
	"errors"
	"fmt"
)

// Prefix identifies errors raised by this service.
const Prefix = "s3-uploads :: "

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindQuotaExceeded
	KindTransform
	KindStoreWrite
	KindSettingsFetch
	KindFileRead
	KindSettingsSave
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindTransform:
		return "transform"
	case KindStoreWrite:
		return "store_write"
	case KindSettingsFetch:
		return "settings_fetch"
	case KindFileRead:
		return "file_read"
	case KindSettingsSave:
		return "settings_save"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind      Kind
	Subsystem string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %v", Prefix, e.Message, e.Cause)
	}
	return Prefix + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserFacing reports whether Message may be shown to the caller verbatim.
func (e *Error) UserFacing() bool {
	return e.Kind == KindValidation || e.Kind == KindQuotaExceeded
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Subsystem: "upload", Message: msg}
}

// FileTooBig builds the localizable quota key, e.g. "[[error:file-too-big, 2048]]".
func FileTooBig(maxKB int) *Error {
	return &Error{
		Kind:      KindQuotaExceeded,
		Subsystem: "upload",
		Message:   fmt.Sprintf("[[error:file-too-big, %d]]", maxKB),
	}
}

func Wrap(kind Kind, subsystem, msg string, cause error) *Error {
	return &Error{Kind: kind, Subsystem: subsystem, Message: msg, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsQuotaExceeded(err error) bool { return KindOf(err) == KindQuotaExceeded }
func IsTransform(err error) bool     { return KindOf(err) == KindTransform }
func IsStoreWrite(err error) bool    { return KindOf(err) == KindStoreWrite }
func IsSettingsFetch(err error) bool { return KindOf(err) == KindSettingsFetch }

// PublicMessage is what an HTTP client may see for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.UserFacing() {
		return e.Message
	}
	return "upload failed"
}
