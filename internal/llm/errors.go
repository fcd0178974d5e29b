package llm

import "fmt"

// FailureKind classifies a single failed generation attempt.
type FailureKind string

const (
	// KindParse means the response was not decodable JSON.
	KindParse FailureKind = "parse"
	// KindValidation means the JSON did not conform to the declared schema.
	KindValidation FailureKind = "validation"
	// KindFatal means the service itself is unusable (missing credential,
	// unreachable endpoint, service-level error). Never retried.
	KindFatal FailureKind = "fatal"
)

// Error is a classified generation failure.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool { return e.Kind != KindFatal }

// RetriesExhaustedError is returned after every allowed attempt failed.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("no valid response after %d attempts, last error: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }
