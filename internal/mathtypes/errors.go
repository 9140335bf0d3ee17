package mathtypes

import "fmt"

// BindingError reports that a formal classification could not be matched
// against an actual one.
type BindingError struct {
	Actual string
	Formal string
	Reason string
}

func (e *BindingError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("cannot bind %s: %s", e.Formal, e.Reason)
	}
	return fmt.Sprintf("cannot bind %s to %s: %s", e.Actual, e.Formal, e.Reason)
}

// TypeMismatchError reports a failed subtype check.
type TypeMismatchError struct {
	Actual   ClsID
	Expected ClsID
	actual   string
	expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s is not a subtype of %s", e.actual, e.expected)
}

func (g *Graph) mismatch(actual, expected ClsID) *TypeMismatchError {
	return &TypeMismatchError{
		Actual:   actual,
		Expected: expected,
		actual:   g.String(actual),
		expected: g.String(expected),
	}
}
