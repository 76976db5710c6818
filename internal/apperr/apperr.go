package apperr

import "fmt"

// InvalidArgument is a request that failed validation at the boundary,
// before any store access. The message is safe to return to the caller.
type InvalidArgument struct {
	Message string
}

func (e *InvalidArgument) Error() string {
	return e.Message
}

func Invalidf(format string, args ...any) *InvalidArgument {
	return &InvalidArgument{Message: fmt.Sprintf(format, args...)}
}
