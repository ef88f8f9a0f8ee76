package model

import (
	"time"
)

// JobStatus represents the lifecycle state of a processing job
type JobStatus string

const (
	JobStatusQueued              JobStatus = "queued"
	JobStatusTranscribing        JobStatus = "transcribing"
	JobStatusGeneratingQuestions JobStatus = "generating-questions"
	JobStatusCompleted           JobStatus = "completed"
	JobStatusFailed              JobStatus = "failed"
)

// Terminal reports whether no further transitions can leave this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one uploaded media file tracked from intake through
// transcription and question generation to completion or failure.
type Job struct {
	ID            string              `json:"id" db:"id"`
	SourceRef     string              `json:"sourceRef" db:"source_ref"`
	FileName      string              `json:"fileName" db:"file_name"`
	Status        JobStatus           `json:"status" db:"status"`
	Progress      int                 `json:"progress" db:"progress"`
	Transcript    []TranscriptSegment `json:"transcript,omitempty"`
	QuestionSets  []QuestionSet       `json:"questionSets,omitempty"`
	FailureReason string              `json:"failureReason,omitempty" db:"failure_reason"`
	CreatedAt     time.Time           `json:"createdAt" db:"created_at"`
}

// TranscriptSegment is one time-bounded chunk of the transcript.
type TranscriptSegment struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
	Duration  float64 `json:"duration"`
}

// QuestionSet holds the questions generated for one transcript segment.
// StartTime/EndTime are copied from the segment so consumers don't need
// to join against the transcript.
type QuestionSet struct {
	SegmentID string     `json:"segmentId"`
	StartTime float64    `json:"startTime"`
	EndTime   float64    `json:"endTime"`
	Questions []Question `json:"questions"`
}

// Question is a single multiple-choice question.
type Question struct {
	ID                 string   `json:"id"`
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctAnswer"`
	Explanation        string   `json:"explanation,omitempty"`
}

// Clone returns a deep copy of the job so readers never alias the
// store's internal record.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Transcript != nil {
		cp.Transcript = make([]TranscriptSegment, len(j.Transcript))
		copy(cp.Transcript, j.Transcript)
	}
	if j.QuestionSets != nil {
		cp.QuestionSets = make([]QuestionSet, len(j.QuestionSets))
		for i, qs := range j.QuestionSets {
			cp.QuestionSets[i] = qs
			if qs.Questions != nil {
				cp.QuestionSets[i].Questions = make([]Question, len(qs.Questions))
				for k, q := range qs.Questions {
					cp.QuestionSets[i].Questions[k] = q
					if q.Options != nil {
						cp.QuestionSets[i].Questions[k].Options = append([]string(nil), q.Options...)
					}
				}
			}
		}
	}
	return &cp
}
