package dispatcher

import "errors"

// ErrInvalidArguments is the sentinel matched by every InvalidArgumentsError.
var ErrInvalidArguments = errors.New("invalid arguments")

// InvalidArgumentsError reports an inconsistent combination of selectors.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrInvalidArguments) true.
func (e *InvalidArgumentsError) Is(target error) bool {
	return target == ErrInvalidArguments
}
