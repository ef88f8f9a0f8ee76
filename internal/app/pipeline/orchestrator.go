package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"video2quiz/internal/app/api"
	"video2quiz/internal/app/metrics"
	"video2quiz/internal/app/model"
	"video2quiz/internal/app/repository"
	"video2quiz/internal/app/store"
)

// ErrAlreadyStarted is returned when Start is invoked for a job whose
// pipeline is already running or finished.
var ErrAlreadyStarted = errors.New("job already started")

// Progress checkpoints committed at stage boundaries. Between
// checkpoints the value is advisory only.
const (
	progressStarted     = 5
	progressTranscribed = 50
	progressDone        = 100
)

// Config holds orchestrator tuning knobs.
type Config struct {
	// StageTimeout bounds each stage client call.
	StageTimeout time.Duration
	// QuestionsPerSegment is passed to the question-generation stage.
	QuestionsPerSegment int
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		StageTimeout:        10 * time.Minute,
		QuestionsPerSegment: 2,
	}
}

// Orchestrator drives each job through transcription and question
// generation, committing results to the job store at stage boundaries.
// It is the only component that mutates job status and progress.
type Orchestrator struct {
	store       *store.Store
	transcriber api.Transcriber
	generator   api.QuestionGenerator
	pool        *Pool
	history     repository.JobHistoryDAO
	logger      *zap.Logger
	cfg         Config

	startedMu sync.Mutex
	started   map[string]struct{}
}

// NewOrchestrator creates an orchestrator. history may be nil when no
// archive is configured.
func NewOrchestrator(
	jobStore *store.Store,
	transcriber api.Transcriber,
	generator api.QuestionGenerator,
	pool *Pool,
	history repository.JobHistoryDAO,
	logger *zap.Logger,
	cfg Config,
) *Orchestrator {
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultConfig().StageTimeout
	}
	if cfg.QuestionsPerSegment <= 0 {
		cfg.QuestionsPerSegment = DefaultConfig().QuestionsPerSegment
	}
	return &Orchestrator{
		store:       jobStore,
		transcriber: transcriber,
		generator:   generator,
		pool:        pool,
		history:     history,
		logger:      logger,
		cfg:         cfg,
		started:     make(map[string]struct{}),
	}
}

// Start schedules the pipeline run for jobID. Starting the same job a
// second time returns ErrAlreadyStarted; two concurrent calls never
// produce two runs. When the worker pool is saturated the job is
// rejected and left in its queued state so the caller can retry.
func (o *Orchestrator) Start(ctx context.Context, jobID string) error {
	if _, err := o.store.Get(jobID); err != nil {
		return err
	}

	o.startedMu.Lock()
	if _, dup := o.started[jobID]; dup {
		o.startedMu.Unlock()
		return ErrAlreadyStarted
	}
	o.started[jobID] = struct{}{}
	o.startedMu.Unlock()

	err := o.pool.Submit(func(ctx context.Context) {
		o.run(ctx, jobID)
	})
	if err != nil {
		// Give the id back so a later Start can succeed.
		o.startedMu.Lock()
		delete(o.started, jobID)
		o.startedMu.Unlock()
		metrics.IncJobRejected()
		return fmt.Errorf("cannot schedule job %s: %w", jobID, err)
	}

	metrics.IncJobStarted()
	return nil
}

// run executes the full state machine for one job. Any stage failure
// transitions the job to failed and never affects other jobs.
func (o *Orchestrator) run(ctx context.Context, jobID string) {
	log := o.logger.With(zap.String("job_id", jobID))

	job, err := o.store.Get(jobID)
	if err != nil {
		log.Error("job disappeared before pipeline start", zap.Error(err))
		return
	}

	err = o.store.MutateStage(jobID, func(j *model.Job) error {
		if j.Status != model.JobStatusQueued {
			return fmt.Errorf("unexpected status %s at pipeline start", j.Status)
		}
		j.Status = model.JobStatusTranscribing
		setProgress(j, progressStarted)
		return nil
	})
	if err != nil {
		log.Error("failed to enter transcribing state", zap.Error(err))
		return
	}
	log.Info("transcription started", zap.String("source_ref", job.SourceRef))

	segments, err := o.transcribe(ctx, job.SourceRef)
	if err != nil {
		o.fail(jobID, err, log)
		return
	}

	err = o.store.MutateStage(jobID, func(j *model.Job) error {
		if j.Status != model.JobStatusTranscribing {
			return fmt.Errorf("unexpected status %s at transcript commit", j.Status)
		}
		if len(j.Transcript) > 0 {
			return errors.New("transcript already committed")
		}
		j.Transcript = segments
		j.Status = model.JobStatusGeneratingQuestions
		setProgress(j, progressTranscribed)
		return nil
	})
	if err != nil {
		log.Error("failed to commit transcript", zap.Error(err))
		return
	}
	log.Info("transcription committed", zap.Int("segments", len(segments)))

	sets, err := o.generateQuestions(ctx, segments)
	if err != nil {
		o.fail(jobID, err, log)
		return
	}

	if err := validateQuestionSets(segments, sets); err != nil {
		// An inconsistent result is a defect in the stage adapter, not
		// a recoverable condition; the job fails with a generic reason.
		log.Error("question generator returned inconsistent results", zap.Error(err))
		o.fail(jobID, api.NewStageError(api.StageQuestionGeneration, "inconsistent question sets", err), log)
		return
	}

	err = o.store.MutateStage(jobID, func(j *model.Job) error {
		if j.Status != model.JobStatusGeneratingQuestions {
			return fmt.Errorf("unexpected status %s at question set commit", j.Status)
		}
		if len(j.QuestionSets) > 0 {
			return errors.New("question sets already committed")
		}
		j.QuestionSets = sets
		j.Status = model.JobStatusCompleted
		setProgress(j, progressDone)
		return nil
	})
	if err != nil {
		log.Error("failed to commit question sets", zap.Error(err))
		return
	}

	metrics.IncJobFinished(string(model.JobStatusCompleted))
	log.Info("job completed",
		zap.Int("segments", len(segments)),
		zap.Int("question_sets", len(sets)))
	o.archive(jobID, log)
}

func (o *Orchestrator) transcribe(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	start := time.Now()
	segments, err := o.transcriber.Transcribe(stageCtx, sourceRef)
	metrics.ObserveStage(api.StageTranscription, time.Since(start), err == nil)
	if err != nil {
		return nil, asStageError(api.StageTranscription, stageCtx, err)
	}
	return segments, nil
}

func (o *Orchestrator) generateQuestions(ctx context.Context, segments []model.TranscriptSegment) ([]model.QuestionSet, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	start := time.Now()
	sets, err := o.generator.GenerateQuestions(stageCtx, segments, o.cfg.QuestionsPerSegment)
	metrics.ObserveStage(api.StageQuestionGeneration, time.Since(start), err == nil)
	if err != nil {
		return nil, asStageError(api.StageQuestionGeneration, stageCtx, err)
	}
	return sets, nil
}

// fail records the terminal failure. Progress stays at its pre-failure
// value and the reason is never cleared.
func (o *Orchestrator) fail(jobID string, cause error, log *zap.Logger) {
	err := o.store.MutateStage(jobID, func(j *model.Job) error {
		if j.Status.Terminal() {
			return nil
		}
		j.Status = model.JobStatusFailed
		j.FailureReason = cause.Error()
		return nil
	})
	if err != nil {
		log.Error("failed to record job failure", zap.Error(err))
		return
	}

	metrics.IncJobFinished(string(model.JobStatusFailed))
	log.Warn("job failed", zap.Error(cause))
	o.archive(jobID, log)
}

// archive writes the terminal snapshot to the history repository.
// Archive errors are logged, never propagated to the job.
func (o *Orchestrator) archive(jobID string, log *zap.Logger) {
	if o.history == nil {
		return
	}
	job, err := o.store.Get(jobID)
	if err != nil {
		log.Error("cannot snapshot job for archival", zap.Error(err))
		return
	}
	if err := o.history.Record(job); err != nil {
		log.Error("failed to archive job", zap.Error(err))
	}
}

// setProgress advances progress, never letting it decrease.
func setProgress(j *model.Job, p int) {
	if p > j.Progress {
		j.Progress = p
	}
}

// asStageError normalizes any stage client error into a typed stage
// failure with a readable reason.
func asStageError(stage string, ctx context.Context, err error) error {
	var stageErr *api.StageError
	if errors.As(err, &stageErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return api.NewStageError(stage, "stage timed out", err)
	}
	return api.NewStageError(stage, err.Error(), err)
}

// validateQuestionSets checks the question-generation contract: one set
// per segment, input order preserved, every set referencing a segment
// that exists in the transcript.
func validateQuestionSets(segments []model.TranscriptSegment, sets []model.QuestionSet) error {
	if len(sets) != len(segments) {
		return fmt.Errorf("got %d question sets for %d segments", len(sets), len(segments))
	}
	known := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		known[seg.ID] = struct{}{}
	}
	for i, set := range sets {
		if _, ok := known[set.SegmentID]; !ok {
			return fmt.Errorf("question set %d references unknown segment %q", i, set.SegmentID)
		}
	}
	return nil
}
