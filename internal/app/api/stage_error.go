package api

import "fmt"

// Stage names used in StageError and metrics labels.
const (
	StageTranscription      = "transcription"
	StageQuestionGeneration = "question-generation"
)

// StageError is the typed failure a stage client surfaces to the
// orchestrator: transport errors, timeouts, non-success responses and
// malformed payloads all arrive in this shape with a human-readable reason.
type StageError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s stage failed: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Reason)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as a stage failure with a diagnostic reason.
func NewStageError(stage, reason string, err error) *StageError {
	return &StageError{Stage: stage, Reason: reason, Err: err}
}
