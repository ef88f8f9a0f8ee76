package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineConfig is the top-level configuration loaded from YAML.
type PipelineConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineTuning `yaml:"pipeline"`
	Stages   StagesConfig   `yaml:"stages"`
	Storage  StorageConfig  `yaml:"storage"`
	History  HistoryConfig  `yaml:"history"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"` // development | production
}

// PipelineTuning configures the orchestrator and its worker pool.
type PipelineTuning struct {
	Workers             int           `yaml:"workers"`
	StageTimeout        time.Duration `yaml:"stage_timeout"`
	QuestionsPerSegment int           `yaml:"questions_per_segment"`
}

// StagesConfig selects and configures the stage providers.
type StagesConfig struct {
	Transcription      StageProviderConfig `yaml:"transcription"`
	QuestionGeneration StageProviderConfig `yaml:"question_generation"`
}

// StageProviderConfig configures one stage provider.
type StageProviderConfig struct {
	// Type selects the adapter: "http" or "openai".
	Type    string        `yaml:"type"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Model   string        `yaml:"model,omitempty"` // openai chat model
}

// StorageConfig configures the upload store.
type StorageConfig struct {
	// Type selects the backend: "local" or "minio".
	Type      string `yaml:"type"`
	UploadDir string `yaml:"upload_dir,omitempty"`
}

// HistoryConfig configures the terminal-job archive.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path,omitempty"`
}

// Default returns the configuration used when no file is supplied.
func Default() *PipelineConfig {
	return &PipelineConfig{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			Environment: "development",
		},
		Pipeline: PipelineTuning{
			Workers:             4,
			StageTimeout:        10 * time.Minute,
			QuestionsPerSegment: 2,
		},
		Stages: StagesConfig{
			Transcription:      StageProviderConfig{Type: "http", BaseURL: "http://localhost:5000"},
			QuestionGeneration: StageProviderConfig{Type: "http", BaseURL: "http://localhost:5001"},
		},
		Storage: StorageConfig{Type: "local", UploadDir: "uploads"},
		History: HistoryConfig{Enabled: true, DBPath: "data/jobs.db"},
	}
}

// LoadPipelineConfig loads configuration from a YAML file, filling
// unset fields from the defaults.
func LoadPipelineConfig(configPath string) (*PipelineConfig, error) {
	configPath = os.ExpandEnv(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *PipelineConfig) Validate() error {
	for name, stage := range map[string]StageProviderConfig{
		"transcription":       c.Stages.Transcription,
		"question_generation": c.Stages.QuestionGeneration,
	} {
		switch stage.Type {
		case "http":
			if stage.BaseURL == "" {
				return fmt.Errorf("stages.%s: base_url is required for type http", name)
			}
		case "openai":
			// Credentials come from the environment, nothing to check here.
		default:
			return fmt.Errorf("stages.%s: unknown provider type %q", name, stage.Type)
		}
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("storage: upload_dir is required for type local")
		}
	case "minio":
		// Endpoint and credentials come from the environment.
	default:
		return fmt.Errorf("storage: unknown type %q", c.Storage.Type)
	}

	if c.Pipeline.QuestionsPerSegment < 0 {
		return fmt.Errorf("pipeline: questions_per_segment must not be negative")
	}
	return nil
}
