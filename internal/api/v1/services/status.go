package services

import (
	"context"

	"github.com/samber/lo"
	"video2quiz/internal/api/v1/dto"
	"video2quiz/internal/app/model"
	"video2quiz/internal/app/store"
)

// StatusService is the read-only snapshot accessor polled by clients.
type StatusService interface {
	GetSnapshot(ctx context.Context, jobID string) (*dto.JobStatusResponse, error)
}

// StatusServiceImpl is a thin read-through to the job store; it holds
// no state and performs no mutation.
type StatusServiceImpl struct {
	store *store.Store
}

// NewStatusService creates a new status query service.
func NewStatusService(jobStore *store.Store) *StatusServiceImpl {
	return &StatusServiceImpl{store: jobStore}
}

// GetSnapshot returns the most recently committed view of the job.
// Unknown ids surface store.ErrNotFound verbatim.
func (s *StatusServiceImpl) GetSnapshot(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	job, err := s.store.Get(jobID)
	if err != nil {
		return nil, err
	}
	return jobToStatus(job), nil
}

func jobToStatus(job *model.Job) *dto.JobStatusResponse {
	return &dto.JobStatusResponse{
		ID:            job.ID,
		FileName:      job.FileName,
		Status:        string(job.Status),
		Progress:      job.Progress,
		Transcript:    lo.Map(job.Transcript, segmentToDTO),
		QuestionSets:  lo.Map(job.QuestionSets, questionSetToDTO),
		FailureReason: job.FailureReason,
		CreatedAt:     job.CreatedAt,
	}
}

func segmentToDTO(seg model.TranscriptSegment, _ int) dto.TranscriptSegment {
	return dto.TranscriptSegment{
		ID:        seg.ID,
		StartTime: seg.StartTime,
		EndTime:   seg.EndTime,
		Text:      seg.Text,
		Duration:  seg.Duration,
	}
}

func questionSetToDTO(set model.QuestionSet, _ int) dto.QuestionSet {
	return dto.QuestionSet{
		SegmentID: set.SegmentID,
		StartTime: set.StartTime,
		EndTime:   set.EndTime,
		Questions: lo.Map(set.Questions, func(q model.Question, _ int) dto.Question {
			return dto.Question{
				ID:            q.ID,
				Question:      q.Prompt,
				Options:       q.Options,
				CorrectAnswer: q.CorrectOptionIndex,
				Explanation:   q.Explanation,
			}
		}),
	}
}
