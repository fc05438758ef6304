package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// New creates an error annotated with the caller location.
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Wrap annotates err with msg and the caller location. The original error stays reachable through errors.Unwrap.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

func Errorf(format string, args ...any) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

// Sentinel creates a comparable error without caller annotation, for package level
// values matched with Is.
func Sentinel(msg string) error {
	return errors.New(msg)
}

func Is(err error, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
