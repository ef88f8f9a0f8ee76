package app

import (
	"go.uber.org/zap"

	"video2quiz/internal/api/server"
	"video2quiz/internal/app/pipeline"
	"video2quiz/internal/app/repository"
	"video2quiz/internal/app/store"
)

// Application bundles the wired components of the API server process.
type Application struct {
	Server       *server.Server
	Pool         *pipeline.Pool
	Orchestrator *pipeline.Orchestrator
	Store        *store.Store
	History      repository.JobHistoryDAO
	Logger       *zap.Logger
}

func NewApplication(
	srv *server.Server,
	pool *pipeline.Pool,
	orchestrator *pipeline.Orchestrator,
	jobStore *store.Store,
	history repository.JobHistoryDAO,
	logger *zap.Logger,
) *Application {
	return &Application{
		Server:       srv,
		Pool:         pool,
		Orchestrator: orchestrator,
		Store:        jobStore,
		History:      history,
		Logger:       logger,
	}
}

// Close releases pipeline resources. The HTTP server is shut down
// separately so callers control the drain deadline.
func (a *Application) Close() {
	a.Pool.Stop()
	if a.History != nil {
		a.History.Close()
	}
	a.Logger.Sync()
}

// LocalPipeline bundles the components needed to run the job pipeline
// without the HTTP server, for one-off CLI processing.
type LocalPipeline struct {
	Pool         *pipeline.Pool
	Orchestrator *pipeline.Orchestrator
	Store        *store.Store
	History      repository.JobHistoryDAO
	Logger       *zap.Logger
}

func NewLocalPipeline(
	pool *pipeline.Pool,
	orchestrator *pipeline.Orchestrator,
	jobStore *store.Store,
	history repository.JobHistoryDAO,
	logger *zap.Logger,
) *LocalPipeline {
	return &LocalPipeline{
		Pool:         pool,
		Orchestrator: orchestrator,
		Store:        jobStore,
		History:      history,
		Logger:       logger,
	}
}

func (lp *LocalPipeline) Close() {
	lp.Pool.Stop()
	if lp.History != nil {
		lp.History.Close()
	}
	lp.Logger.Sync()
}
