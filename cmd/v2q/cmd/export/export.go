package export

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"video2quiz/internal/app/converter/export"
	"video2quiz/internal/app/repository/sqlite"
)

var (
	jobID          string
	outputFilePath string
	dbPath         string
)

func init() {
	Cmd.Flags().StringVarP(&jobID, "jobId", "j", "", "id of the archived job to export")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().StringVarP(&dbPath, "db", "d", "data/jobs.db", "path to the job history database")

	Cmd.MarkFlagRequired("jobId")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export an archived job's question sets to excel",
	Long: `Export an archived job's question sets to excel

- Jobs are archived to sqlite when they finish, enable history in the config
- One row per question, grouped by transcript segment`,
	Run: func(cmd *cobra.Command, args []string) {
		db := sqlite.NewSQLiteDB(dbPath)
		defer db.Close()

		job, err := db.GetByID(jobID)
		if err != nil {
			log.Fatalf("Failed to load job %s: %v\n", jobID, err)
		}

		if err := export.ToExcel(job, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
