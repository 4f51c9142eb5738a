package cli

import "errors"

// ErrUsage matches every usage error via errors.Is, so callers can exit with
// a distinct status for operator mistakes.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
