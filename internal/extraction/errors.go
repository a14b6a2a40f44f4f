package extraction

import (
	"fmt"
	"strings"
)

// Kind classifies an extraction failure
type Kind int

// Failure kinds. All are fatal to the request.
const (
	KindRefused Kind = iota + 1
	KindNoJSONFound
	KindUnparsableJSON
	KindMissingRequiredFields
)

func (k Kind) String() string {
	switch k {
	case KindRefused:
		return "Refused"
	case KindNoJSONFound:
		return "NoJsonFound"
	case KindUnparsableJSON:
		return "UnparsableJson"
	case KindMissingRequiredFields:
		return "MissingRequiredFields"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by Extract. Compare against the sentinels with errors.Is.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists the offending top-level fields for KindMissingRequiredFields
	Fields []string
	Cause  error
}

// Sentinels for errors.Is
var (
	ErrRefused               = &Error{Kind: KindRefused}
	ErrNoJSONFound           = &Error{Kind: KindNoJSONFound}
	ErrUnparsableJSON        = &Error{Kind: KindUnparsableJSON}
	ErrMissingRequiredFields = &Error{Kind: KindMissingRequiredFields}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
