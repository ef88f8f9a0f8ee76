package whisper_http

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

// Provider implements the transcription stage via HTTP to a Whisper
// service exposing POST {base_url}/transcribe.
type Provider struct {
	config Config
	client *http.Client
}

// Config represents configuration for the Whisper transcription service.
type Config struct {
	BaseURL        string            `yaml:"base_url"`        // e.g. "http://localhost:5000"
	TranscribePath string            `yaml:"transcribe_path"` // default "/transcribe"
	Timeout        time.Duration     `yaml:"timeout"`
	CustomHeaders  map[string]string `yaml:"custom_headers"`
}

// NewProvider creates a transcription stage client.
func NewProvider(config Config) *Provider {
	if config.TranscribePath == "" {
		config.TranscribePath = "/transcribe"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}
	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type transcribeRequest struct {
	FilePath string `json:"file_path"`
	JobID    string `json:"job_id"`
}

type transcribeResponse struct {
	JobID    string           `json:"job_id"`
	Segments []segmentPayload `json:"segments"`
	FullText string           `json:"full_text"`
}

type segmentPayload struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
	Duration  float64 `json:"duration"`
}

// Transcribe sends the uploaded file reference to the Whisper service
// and returns the ordered transcript segments. An empty segment list is
// a valid response for silent media.
func (p *Provider) Transcribe(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
	if sourceRef == "" {
		return nil, api.NewStageError(api.StageTranscription, "source reference is empty", nil)
	}

	payload, err := json.Marshal(transcribeRequest{
		FilePath: sourceRef,
		JobID:    uuid.New().String(),
	})
	if err != nil {
		return nil, api.NewStageError(api.StageTranscription, "failed to encode request", err)
	}

	url := p.config.BaseURL + p.config.TranscribePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, api.NewStageError(api.StageTranscription, "failed to create HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range p.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, api.NewStageError(api.StageTranscription, "transcription service unreachable", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, api.NewStageError(api.StageTranscription, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, api.NewStageError(api.StageTranscription,
			fmt.Sprintf("transcription service returned status %d: %s", resp.StatusCode, string(responseData)), nil)
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return nil, api.NewStageError(api.StageTranscription, "malformed response payload", err)
	}

	segments := make([]model.TranscriptSegment, 0, len(parsed.Segments))
	for i, s := range parsed.Segments {
		if s.Text == "" {
			return nil, api.NewStageError(api.StageTranscription,
				fmt.Sprintf("segment %d has empty text", i), nil)
		}
		if s.EndTime <= s.StartTime {
			return nil, api.NewStageError(api.StageTranscription,
				fmt.Sprintf("segment %d has invalid time range [%f, %f]", i, s.StartTime, s.EndTime), nil)
		}
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		segments = append(segments, model.TranscriptSegment{
			ID:        id,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Text:      s.Text,
			Duration:  s.EndTime - s.StartTime,
		})
	}
	return segments, nil
}
