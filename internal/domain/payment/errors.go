package payment

import "fmt"

// ValidationError reports bad caller input. Raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmissionError is a transport or protocol failure on the push call:
// network error, non-2xx status, or a body that cannot be interpreted.
// Provider error detail is carried when present.
type SubmissionError struct {
	StatusCode   int
	ErrorCode    string
	ErrorMessage string
	Body         []byte
	Err          error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.ErrorCode != "":
		return fmt.Sprintf("push submission failed: provider returned %d (%s: %s)",
			e.StatusCode, e.ErrorCode, e.ErrorMessage)
	case e.StatusCode != 0:
		return fmt.Sprintf("push submission failed: provider returned %d", e.StatusCode)
	default:
		return fmt.Sprintf("push submission failed: %v", e.Err)
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }
