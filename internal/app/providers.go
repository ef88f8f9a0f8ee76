package app

import (
	"log"
	"log/slog"
	"os"
	"time"

	"go.uber.org/zap"

	"video2quiz/internal/api/server"
	v1routes "video2quiz/internal/api/v1/routes"
	"video2quiz/internal/api/v1/services"
	"video2quiz/internal/app/api"
	"video2quiz/internal/app/api/openai"
	"video2quiz/internal/app/api/openai/quizgen"
	"video2quiz/internal/app/api/openai/whisper"
	"video2quiz/internal/app/api/quizgen_http"
	"video2quiz/internal/app/api/whisper_http"
	appconfig "video2quiz/internal/app/config"
	"video2quiz/internal/app/pipeline"
	"video2quiz/internal/app/repository"
	"video2quiz/internal/app/repository/sqlite"
	"video2quiz/internal/config"
)

func provideZapLogger(cfg *appconfig.PipelineConfig) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v\n", err)
	}
	return logger
}

func provideSlogLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// provideTranscriber selects the transcription adapter. The "openai"
// type requires OPENAI_API_KEY to be set.
func provideTranscriber(cfg *appconfig.PipelineConfig) api.Transcriber {
	stage := cfg.Stages.Transcription
	switch stage.Type {
	case "openai":
		client, err := openai.GetClient()
		if err != nil {
			log.Fatalf("Failed to create OpenAI client: %v\n", err)
		}
		return whisper.NewRemoteTranscriber(client)
	case "http", "":
		return whisper_http.NewProvider(whisper_http.Config{
			BaseURL: stage.BaseURL,
			Timeout: stage.Timeout,
		})
	default:
		log.Fatalf("Unknown transcription provider type: %q\n", stage.Type)
		return nil
	}
}

func provideQuestionGenerator(cfg *appconfig.PipelineConfig) api.QuestionGenerator {
	stage := cfg.Stages.QuestionGeneration
	switch stage.Type {
	case "openai":
		client, err := openai.GetClient()
		if err != nil {
			log.Fatalf("Failed to create OpenAI client: %v\n", err)
		}
		return quizgen.NewGenerator(client, stage.Model)
	case "http", "":
		return quizgen_http.NewProvider(quizgen_http.Config{
			BaseURL: stage.BaseURL,
			Timeout: stage.Timeout,
		})
	default:
		log.Fatalf("Unknown question generation provider type: %q\n", stage.Type)
		return nil
	}
}

func providePool(cfg *appconfig.PipelineConfig, logger *zap.Logger) *pipeline.Pool {
	return pipeline.NewPool(cfg.Pipeline.Workers, logger)
}

func provideOrchestratorConfig(cfg *appconfig.PipelineConfig) pipeline.Config {
	return pipeline.Config{
		StageTimeout:        cfg.Pipeline.StageTimeout,
		QuestionsPerSegment: cfg.Pipeline.QuestionsPerSegment,
	}
}

// provideHistory returns nil when the archive is disabled; the
// orchestrator treats a nil DAO as "no archive".
func provideHistory(cfg *appconfig.PipelineConfig) repository.JobHistoryDAO {
	if !cfg.History.Enabled {
		return nil
	}
	return sqlite.NewSQLiteDB(cfg.History.DBPath)
}

func provideStorageService(cfg *appconfig.PipelineConfig) services.StorageService {
	switch cfg.Storage.Type {
	case "minio":
		env, err := config.GetEnv()
		if err != nil {
			log.Fatalf("Failed to read environment: %v\n", err)
		}
		storage, err := services.NewMinioStorageService(env)
		if err != nil {
			log.Fatalf("Failed to create MinIO storage: %v\n", err)
		}
		return storage
	case "local", "":
		storage, err := services.NewLocalStorageService(cfg.Storage.UploadDir)
		if err != nil {
			log.Fatalf("Failed to create upload directory: %v\n", err)
		}
		return storage
	default:
		log.Fatalf("Unknown storage type: %q\n", cfg.Storage.Type)
		return nil
	}
}

func provideServerConfig(cfg *appconfig.PipelineConfig) server.Config {
	return server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		Environment:  cfg.Server.Environment,
	}
}

func provideServiceContainer(
	intake *services.IntakeServiceImpl,
	status *services.StatusServiceImpl,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		IntakeService: intake,
		StatusService: status,
	}
}
