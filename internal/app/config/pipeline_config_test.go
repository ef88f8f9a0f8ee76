package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.StageTimeout)
	assert.Equal(t, 2, cfg.Pipeline.QuestionsPerSegment)
	assert.Equal(t, "http", cfg.Stages.Transcription.Type)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPipelineConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
  environment: production
pipeline:
  workers: 8
  questions_per_segment: 3
stages:
  transcription:
    type: http
    base_url: http://whisper:5000
  question_generation:
    type: openai
    model: gpt-4o
storage:
  type: local
  upload_dir: /tmp/uploads
history:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadPipelineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 3, cfg.Pipeline.QuestionsPerSegment)
	assert.Equal(t, "http://whisper:5000", cfg.Stages.Transcription.BaseURL)
	assert.Equal(t, "openai", cfg.Stages.QuestionGeneration.Type)
	assert.Equal(t, "gpt-4o", cfg.Stages.QuestionGeneration.Model)
	assert.False(t, cfg.History.Enabled)

	// Unset fields keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.StageTimeout)
}

func TestLoadPipelineConfig_MissingFile(t *testing.T) {
	_, err := LoadPipelineConfig("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *PipelineConfig) {},
		},
		{
			name: "http stage without base url",
			mutate: func(c *PipelineConfig) {
				c.Stages.Transcription.BaseURL = ""
			},
			wantErr: "base_url is required",
		},
		{
			name: "unknown stage type",
			mutate: func(c *PipelineConfig) {
				c.Stages.QuestionGeneration.Type = "grpc"
			},
			wantErr: "unknown provider type",
		},
		{
			name: "openai stage needs no base url",
			mutate: func(c *PipelineConfig) {
				c.Stages.Transcription = StageProviderConfig{Type: "openai"}
			},
		},
		{
			name: "local storage without dir",
			mutate: func(c *PipelineConfig) {
				c.Storage.UploadDir = ""
			},
			wantErr: "upload_dir is required",
		},
		{
			name: "unknown storage type",
			mutate: func(c *PipelineConfig) {
				c.Storage.Type = "s3"
			},
			wantErr: "unknown type",
		},
		{
			name: "negative questions per segment",
			mutate: func(c *PipelineConfig) {
				c.Pipeline.QuestionsPerSegment = -1
			},
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
