package quizgen_http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"video2quiz/internal/app/api"
	"video2quiz/internal/app/model"
)

// Provider implements the question-generation stage via HTTP to an LLM
// service exposing POST {base_url}/generate-questions.
type Provider struct {
	config Config
	client *http.Client
}

// Config represents configuration for the question-generation service.
type Config struct {
	BaseURL       string            `yaml:"base_url"` // e.g. "http://localhost:5001"
	GeneratePath  string            `yaml:"generate_path"`
	Timeout       time.Duration     `yaml:"timeout"`
	CustomHeaders map[string]string `yaml:"custom_headers"`
}

// NewProvider creates a question-generation stage client.
func NewProvider(config Config) *Provider {
	if config.GeneratePath == "" {
		config.GeneratePath = "/generate-questions"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}
	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type generateRequest struct {
	Segments               []model.TranscriptSegment `json:"segments"`
	JobID                  string                    `json:"job_id"`
	NumQuestionsPerSegment int                       `json:"num_questions_per_segment"`
}

type generateResponse struct {
	JobID        string              `json:"job_id"`
	QuestionSets []model.QuestionSet `json:"question_sets"`
}

// GenerateQuestions sends the ordered transcript to the service and
// returns one question set per segment, preserving input order.
func (p *Provider) GenerateQuestions(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
	payload, err := json.Marshal(generateRequest{
		Segments:               segments,
		JobID:                  uuid.New().String(),
		NumQuestionsPerSegment: perSegment,
	})
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "failed to encode request", err)
	}

	url := p.config.BaseURL + p.config.GeneratePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "failed to create HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range p.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "question service unreachable", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, api.NewStageError(api.StageQuestionGeneration,
			fmt.Sprintf("question service returned status %d: %s", resp.StatusCode, string(responseData)), nil)
	}

	var parsed generateResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "malformed response payload", err)
	}

	sets := parsed.QuestionSets
	if sets == nil {
		sets = []model.QuestionSet{}
	}
	if err := checkSets(segments, sets); err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, err.Error(), nil)
	}

	// Denormalize segment times onto sets the service left blank.
	byID := make(map[string]model.TranscriptSegment, len(segments))
	for _, seg := range segments {
		byID[seg.ID] = seg
	}
	for i := range sets {
		if seg, ok := byID[sets[i].SegmentID]; ok && sets[i].EndTime == 0 {
			sets[i].StartTime = seg.StartTime
			sets[i].EndTime = seg.EndTime
		}
	}
	return sets, nil
}

// checkSets validates the service honored the stage contract before
// the result reaches the orchestrator.
func checkSets(segments []model.TranscriptSegment, sets []model.QuestionSet) error {
	if len(sets) != len(segments) {
		return fmt.Errorf("expected %d question sets, got %d", len(segments), len(sets))
	}
	for i, set := range sets {
		if set.SegmentID != segments[i].ID {
			return fmt.Errorf("question set %d is for segment %q, expected %q", i, set.SegmentID, segments[i].ID)
		}
		for k, q := range set.Questions {
			if q.Prompt == "" {
				return fmt.Errorf("segment %q question %d has empty prompt", set.SegmentID, k)
			}
			if len(q.Options) < 2 {
				return fmt.Errorf("segment %q question %d has %d options, need at least 2", set.SegmentID, k, len(q.Options))
			}
			if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
				return fmt.Errorf("segment %q question %d has out-of-range answer index %d", set.SegmentID, k, q.CorrectOptionIndex)
			}
		}
	}
	return nil
}
