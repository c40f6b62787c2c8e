package main

import (
	"os"

	"options-lab/internal/cli"
	"options-lab/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(logger)
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		cli.ReportError(cmd, err)
		os.Exit(1)
	}
}
