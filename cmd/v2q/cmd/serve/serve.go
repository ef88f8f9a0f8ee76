package serve

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"video2quiz/internal/app"
	appconfig "video2quiz/internal/app/config"
)

var configPath string

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML config file, defaults are used when omitted")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the job pipeline API server",
	Long: `Start the job pipeline API server

- POST /api/v1/jobs/upload accepts a video file and starts a job
- GET /api/v1/jobs/:id/status reports progress, transcript and questions
- Jobs run on a bounded worker pool; saturation returns 503`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		application := app.InitializeApplication(cfg)
		defer application.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application.Pool.Start(ctx)
		if err := application.Server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v\n", err)
		}

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v\n", err)
		}
	},
}

func loadConfig() *appconfig.PipelineConfig {
	if configPath == "" {
		return appconfig.Default()
	}
	cfg, err := appconfig.LoadPipelineConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v\n", configPath, err)
	}
	return cfg
}
