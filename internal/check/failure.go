package check

import "fmt"

// Failure is one violated invariant, with expected and actual values for
// diagnosis.
type Failure struct {
	Check    string
	Expected any
	Actual   any
	Message  string
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("%s: %s (expected %v, got %v)", f.Check, f.Message, f.Expected, f.Actual)
	}
	return fmt.Sprintf("%s: expected %v, got %v", f.Check, f.Expected, f.Actual)
}

func fail(check string, expected, actual any, format string, args ...any) *Failure {
	return &Failure{
		Check:    check,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf(format, args...),
	}
}
