package main

import (
	"fmt"
	"os"

	"github.com/stwalsh4118/sheepit-settings/internal/cli"
	"github.com/stwalsh4118/sheepit-settings/internal/logger"
)

func main() {
	rootCmd := cli.NewRootCommand(&cli.Container{})

	if err := rootCmd.Execute(); err != nil {
		logger.Log.Debug().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
