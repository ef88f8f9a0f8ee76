package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video2quiz/internal/app/api"
	"video2quiz/internal/app/model"
	"video2quiz/internal/app/store"
)

type fakeTranscriber struct {
	fn func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
	return f.fn(ctx, sourceRef)
}

type fakeGenerator struct {
	fn func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error)
}

func (f *fakeGenerator) GenerateQuestions(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
	return f.fn(ctx, segments, perSegment)
}

type recordingHistory struct {
	mu   sync.Mutex
	jobs []*model.Job
}

func (r *recordingHistory) Close() error { return nil }

func (r *recordingHistory) Record(job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *recordingHistory) GetByID(id string) (*model.Job, error) { return nil, nil }

func (r *recordingHistory) ListRecent(limit int) ([]model.Job, error) { return nil, nil }

func (r *recordingHistory) recorded() []*model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Job(nil), r.jobs...)
}

func twoSegments() []model.TranscriptSegment {
	return []model.TranscriptSegment{
		{ID: "1", StartTime: 0, EndTime: 30, Text: "first part", Duration: 30},
		{ID: "2", StartTime: 30, EndTime: 60, Text: "second part", Duration: 30},
	}
}

func setsFor(segments []model.TranscriptSegment, perSegment int) []model.QuestionSet {
	sets := make([]model.QuestionSet, 0, len(segments))
	for _, seg := range segments {
		qs := model.QuestionSet{SegmentID: seg.ID, StartTime: seg.StartTime, EndTime: seg.EndTime}
		for i := 0; i < perSegment; i++ {
			qs.Questions = append(qs.Questions, model.Question{
				ID:      seg.ID + "-q",
				Prompt:  "What was covered?",
				Options: []string{"a", "b", "c", "d"},
			})
		}
		sets = append(sets, qs)
	}
	return sets
}

type orchestratorEnv struct {
	store        *store.Store
	pool         *Pool
	orchestrator *Orchestrator
	history      *recordingHistory
}

func newOrchestratorEnv(t *testing.T, transcriber api.Transcriber, generator api.QuestionGenerator) *orchestratorEnv {
	t.Helper()

	jobStore := store.NewStore()
	pool := NewPool(2, zap.NewNop())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	history := &recordingHistory{}
	orchestrator := NewOrchestrator(jobStore, transcriber, generator, pool, history, zap.NewNop(), Config{
		StageTimeout:        time.Second,
		QuestionsPerSegment: 2,
	})

	return &orchestratorEnv{
		store:        jobStore,
		pool:         pool,
		orchestrator: orchestrator,
		history:      history,
	}
}

func (env *orchestratorEnv) startJob(t *testing.T) string {
	t.Helper()
	id, err := env.store.Create("/uploads/video.mp4", "video.mp4")
	require.NoError(t, err)
	require.NoError(t, env.orchestrator.Start(context.Background(), id))
	return id
}

func (env *orchestratorEnv) waitTerminal(t *testing.T, id string) *model.Job {
	t.Helper()
	var job *model.Job
	require.Eventually(t, func() bool {
		j, err := env.store.Get(id)
		if err != nil {
			return false
		}
		job = j
		return j.Status.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestOrchestrator_HappyPath(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return twoSegments(), nil
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return setsFor(segments, perSegment), nil
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	id := env.startJob(t)
	job := env.waitTerminal(t, id)

	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Empty(t, job.FailureReason)
	require.Len(t, job.Transcript, 2)
	require.Len(t, job.QuestionSets, 2)
	assert.Equal(t, "1", job.QuestionSets[0].SegmentID)
	assert.Equal(t, "2", job.QuestionSets[1].SegmentID)
	assert.Len(t, job.QuestionSets[0].Questions, 2)

	recorded := env.history.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, id, recorded[0].ID)
}

func TestOrchestrator_TranscriptionFailure(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return nil, api.NewStageError(api.StageTranscription, "upstream returned 500", nil)
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		t.Error("generator must not run after transcription failure")
		return nil, nil
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	id := env.startJob(t)
	job := env.waitTerminal(t, id)

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, 5, job.Progress)
	assert.Contains(t, job.FailureReason, "upstream returned 500")
	assert.Empty(t, job.Transcript)
	assert.Empty(t, job.QuestionSets)
}

func TestOrchestrator_GenerationFailureKeepsTranscript(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return twoSegments(), nil
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return nil, api.NewStageError(api.StageQuestionGeneration, "model unavailable", nil)
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	id := env.startJob(t)
	job := env.waitTerminal(t, id)

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, 50, job.Progress)
	assert.Contains(t, job.FailureReason, "model unavailable")
	assert.Len(t, job.Transcript, 2)
	assert.Empty(t, job.QuestionSets)
}

func TestOrchestrator_EmptyTranscriptCompletes(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return []model.TranscriptSegment{}, nil
	}}
	var generatorCalled bool
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		generatorCalled = true
		assert.Empty(t, segments)
		return []model.QuestionSet{}, nil
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	id := env.startJob(t)
	job := env.waitTerminal(t, id)

	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.True(t, generatorCalled)
	assert.Empty(t, job.Transcript)
	assert.Empty(t, job.QuestionSets)
}

func TestOrchestrator_InconsistentQuestionSetsFailJob(t *testing.T) {
	tests := []struct {
		name string
		fn   func(segments []model.TranscriptSegment) []model.QuestionSet
	}{
		{
			name: "missing set",
			fn: func(segments []model.TranscriptSegment) []model.QuestionSet {
				return setsFor(segments, 2)[:1]
			},
		},
		{
			name: "unknown segment id",
			fn: func(segments []model.TranscriptSegment) []model.QuestionSet {
				sets := setsFor(segments, 2)
				sets[1].SegmentID = "999"
				return sets
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
				return twoSegments(), nil
			}}
			generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
				return tt.fn(segments), nil
			}}
			env := newOrchestratorEnv(t, transcriber, generator)

			id := env.startJob(t)
			job := env.waitTerminal(t, id)

			assert.Equal(t, model.JobStatusFailed, job.Status)
			assert.Equal(t, 50, job.Progress)
			assert.Contains(t, job.FailureReason, "inconsistent")
		})
	}
}

func TestOrchestrator_StartIsIdempotent(t *testing.T) {
	release := make(chan struct{})
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		<-release
		return nil, nil
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return nil, nil
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	id, err := env.store.Create("/uploads/video.mp4", "video.mp4")
	require.NoError(t, err)

	require.NoError(t, env.orchestrator.Start(context.Background(), id))
	err = env.orchestrator.Start(context.Background(), id)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	close(release)
	env.waitTerminal(t, id)
}

func TestOrchestrator_StartUnknownJob(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return nil, nil
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return nil, nil
	}}
	env := newOrchestratorEnv(t, transcriber, generator)

	err := env.orchestrator.Start(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrchestrator_PoolSaturationLeavesJobQueued(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		return nil, nil
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return nil, nil
	}}

	jobStore := store.NewStore()
	// Workers never started, so the queue fills and Submit rejects.
	pool := NewPool(1, zap.NewNop())
	orchestrator := NewOrchestrator(jobStore, transcriber, generator, pool, nil, zap.NewNop(), Config{})

	var lastErr error
	var rejectedID string
	for i := 0; i < 3; i++ {
		id, err := jobStore.Create("/uploads/video.mp4", "video.mp4")
		require.NoError(t, err)
		if err := orchestrator.Start(context.Background(), id); err != nil {
			lastErr = err
			rejectedID = id
		}
	}

	require.Error(t, lastErr)
	assert.ErrorIs(t, lastErr, ErrPoolSaturated)

	job, err := jobStore.Get(rejectedID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusQueued, job.Status)
	assert.Equal(t, 0, job.Progress)
}

func TestOrchestrator_StageTimeoutFailsJob(t *testing.T) {
	transcriber := &fakeTranscriber{fn: func(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	generator := &fakeGenerator{fn: func(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
		return nil, nil
	}}

	jobStore := store.NewStore()
	pool := NewPool(1, zap.NewNop())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	orchestrator := NewOrchestrator(jobStore, transcriber, generator, pool, nil, zap.NewNop(), Config{
		StageTimeout:        20 * time.Millisecond,
		QuestionsPerSegment: 2,
	})

	id, err := jobStore.Create("/uploads/video.mp4", "video.mp4")
	require.NoError(t, err)
	require.NoError(t, orchestrator.Start(context.Background(), id))

	var job *model.Job
	require.Eventually(t, func() bool {
		j, err := jobStore.Get(id)
		if err != nil {
			return false
		}
		job = j
		return j.Status.Terminal()
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Contains(t, job.FailureReason, "timed out")
	assert.Equal(t, 5, job.Progress)
}
