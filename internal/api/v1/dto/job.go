package dto

import (
	"time"
)

// CreateJobRequest creates a job for a file that is already in storage.
type CreateJobRequest struct {
	SourceRef string `json:"sourceRef" binding:"required"`
	FileName  string `json:"fileName" binding:"required"`
}

// UploadJobResponse is returned right after intake, before the
// pipeline has made any progress.
type UploadJobResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// JobStatusResponse is the polling payload. Transcript and question
// sets appear once their stage has committed.
type JobStatusResponse struct {
	ID            string                `json:"id"`
	FileName      string                `json:"filename"`
	Status        string                `json:"status"`
	Progress      int                   `json:"progress"`
	Transcript    []TranscriptSegment   `json:"transcript,omitempty"`
	QuestionSets  []QuestionSet         `json:"questionSets,omitempty"`
	FailureReason string                `json:"failureReason,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// TranscriptSegment mirrors the committed transcript chunk.
type TranscriptSegment struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
	Duration  float64 `json:"duration"`
}

// QuestionSet mirrors the committed questions for one segment.
type QuestionSet struct {
	SegmentID string     `json:"segmentId"`
	StartTime float64    `json:"startTime"`
	EndTime   float64    `json:"endTime"`
	Questions []Question `json:"questions"`
}

// Question is one multiple-choice question.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}
