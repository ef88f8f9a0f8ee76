package process

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"video2quiz/internal/app"
	appconfig "video2quiz/internal/app/config"
	"video2quiz/internal/app/converter"
	"video2quiz/internal/app/model"
)

var (
	filePath     string
	configPath   string
	questions    int
	showProgress bool
	outputPath   string
)

func init() {
	Cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the local video or audio file")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	Cmd.Flags().IntVarP(&questions, "questions", "q", 0, "questions per transcript segment, 0 uses the configured default")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "force the progress bar even without a TTY")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the completed job as JSON to this file instead of stdout")

	Cmd.MarkFlagRequired("file")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run one local file through the transcription and quiz pipeline",
	Long: `Run one local file through the transcription and quiz pipeline

- Transcribes the file, then generates one question set per transcript segment
- Prints the completed job as JSON when done`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if questions > 0 {
			cfg.Pipeline.QuestionsPerSegment = questions
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			log.Fatalf("Invalid file path %s: %v\n", filePath, err)
		}
		if _, err := os.Stat(absPath); err != nil {
			log.Fatalf("Cannot read %s: %v\n", absPath, err)
		}

		job, err := runPipeline(cfg, absPath)
		if err != nil {
			log.Fatalf("Processing failed: %v\n", err)
		}

		if err := writeResult(job); err != nil {
			log.Fatalf("Failed to write result: %v\n", err)
		}
		if job.Status == model.JobStatusFailed {
			fmt.Fprintf(os.Stderr, "job failed: %s\n", job.FailureReason)
			os.Exit(1)
		}
	},
}

func runPipeline(cfg *appconfig.PipelineConfig, absPath string) (*model.Job, error) {
	lp := app.InitializeLocalPipeline(cfg)
	defer lp.Close()

	ctx := context.Background()
	lp.Pool.Start(ctx)

	jobID, err := lp.Store.Create(absPath, filepath.Base(absPath))
	if err != nil {
		return nil, err
	}
	if err := lp.Orchestrator.Start(ctx, jobID); err != nil {
		return nil, err
	}

	progress := converter.NewProgressManager(converter.ProgressConfig{
		Enabled: converter.ShouldShowProgress(showProgress),
	})
	bar := progress.CreateJobBar(filepath.Base(absPath))

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		job, err := lp.Store.Get(jobID)
		if err != nil {
			return nil, err
		}
		bar.SetCurrent(job.Progress)
		if job.Status.Terminal() {
			bar.Complete()
			progress.Wait()
			return job, nil
		}
	}
	return nil, fmt.Errorf("polling stopped unexpectedly")
}

func writeResult(job *model.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputPath, data, 0o644)
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
