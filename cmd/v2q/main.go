package main

import (
	"fmt"
	"os"

	"video2quiz/cmd/v2q/cmd"
	"video2quiz/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}
	cmd.Execute()
}
