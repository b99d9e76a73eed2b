package bridge

import "fmt"

// OpError is the single failure shape every bridge operation produces.
// Op is the logical operation description; Err is the proximate cause.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// withOp runs fn and translates any failure into an *OpError carrying op.
// Applied at every operation boundary so the catch-and-rewrap logic lives
// in one place.
func withOp[T any](op string, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err != nil {
		var zero T
		return zero, &OpError{Op: op, Err: err}
	}
	return v, nil
}
