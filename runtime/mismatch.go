package runtime

import (
	"errors"
	"fmt"
)

// ErrMismatch matches every MismatchError via errors.Is, regardless of the
// discriminant kind it carries.
var ErrMismatch = errors.New("variant mismatch")

// MismatchError reports a narrowing accessor applied to a value holding a
// different variant. Expected is the discriminant the accessor was generated
// for; Actual is the discriminant of the value's variant, which may be a
// catch-all (NameUndocumented, TokenOther).
type MismatchError[D ~string] struct {
	Expected D
	Actual   D
}

func (e *MismatchError[D]) Error() string {
	return fmt.Sprintf("%s mismatch: expected %q, got %q", discriminantKind(e.Expected), string(e.Expected), string(e.Actual))
}

func (e *MismatchError[D]) Is(target error) bool {
	return target == ErrMismatch
}

func discriminantKind(d any) string {
	switch d.(type) {
	case StatusName:
		return "status"
	case ContentToken:
		return "content"
	default:
		return "variant"
	}
}

// Narrow implements the accessor contract generated bindings rely on: it
// returns the payload when the value holds the expected variant and a
// MismatchError naming both discriminants otherwise.
func Narrow[D ~string, P any](expected, actual D, payload *P) (P, error) {
	if payload == nil || actual != expected {
		var zero P
		return zero, &MismatchError[D]{Expected: expected, Actual: actual}
	}
	return *payload, nil
}
