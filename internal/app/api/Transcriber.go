package api

import (
	"context"

	"video2quiz/internal/app/model"
)

// Transcriber defines the transcription stage contract: it converts the
// uploaded media referenced by sourceRef into ordered transcript segments.
// An empty result is a valid outcome for media with no detected speech.
type Transcriber interface {
	Transcribe(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error)
}

// QuestionGenerator defines the question-generation stage contract:
// it produces one question set per input segment, preserving input order.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error)
}
