//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"video2quiz/internal/api/server"
	"video2quiz/internal/api/v1/services"
	appconfig "video2quiz/internal/app/config"
	"video2quiz/internal/app/pipeline"
	"video2quiz/internal/app/store"
)

func InitializeApplication(cfg *appconfig.PipelineConfig) *Application {
	wire.Build(
		provideZapLogger,
		provideSlogLogger,
		provideTranscriber,
		provideQuestionGenerator,
		providePool,
		provideOrchestratorConfig,
		provideHistory,
		provideStorageService,
		provideServerConfig,
		provideServiceContainer,
		store.NewStore,
		pipeline.NewOrchestrator,
		services.NewIntakeService,
		services.NewStatusService,
		server.NewServer,
		NewApplication,
	)
	return &Application{}
}

func InitializeLocalPipeline(cfg *appconfig.PipelineConfig) *LocalPipeline {
	wire.Build(
		provideZapLogger,
		provideTranscriber,
		provideQuestionGenerator,
		providePool,
		provideOrchestratorConfig,
		provideHistory,
		store.NewStore,
		pipeline.NewOrchestrator,
		NewLocalPipeline,
	)
	return &LocalPipeline{}
}
