package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"video2quiz/cmd/v2q/cmd/export"
	"video2quiz/cmd/v2q/cmd/process"
	"video2quiz/cmd/v2q/cmd/serve"
	"video2quiz/cmd/v2q/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "v2q",
	Short: "Turn videos into multiple-choice quizzes",
	Long: `Turn videos into multiple-choice quizzes.
- Run the API server and upload videos over HTTP, or
- Process a local file directly from the command line
- Each video is transcribed and every transcript segment becomes a question set
- Completed jobs can be archived to sqlite and exported to excel.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
