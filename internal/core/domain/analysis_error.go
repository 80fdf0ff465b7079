package domain

// ErrorKind classifies a failed analysis run.
type ErrorKind string

// Error kinds surfaced to the presentation layer.
const (
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindInput         ErrorKind = "input"
	ErrorKindRetrieval     ErrorKind = "retrieval"
	ErrorKindGeneration    ErrorKind = "generation"
	ErrorKindOutput        ErrorKind = "output"
)

// AnalysisError is the error result of a run that could not complete.
// Message is the human-readable cause; Err is the underlying error.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewAnalysisError creates an AnalysisError.
func NewAnalysisError(kind ErrorKind, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: message, Err: err}
}

// Error returns the user-facing message followed by the cause, if any.
func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}
