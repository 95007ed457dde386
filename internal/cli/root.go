// Package cli implements the sheepit-settings command line.
package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/sheepit-settings/internal/config"
	"github.com/stwalsh4118/sheepit-settings/internal/hardware"
	"github.com/stwalsh4118/sheepit-settings/internal/logger"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
	"github.com/stwalsh4118/sheepit-settings/internal/store"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// DeviceSource enumerates GPUs and resolves stored device ids
type DeviceSource interface {
	models.DeviceLookup
	Devices() ([]*hardware.GPUDevice, error)
}

// Container holds the dependencies shared by commands. Nil fields are built
// from the loaded configuration before a command runs.
type Container struct {
	Config  *config.Config
	Store   store.Store
	Devices DeviceSource
}

// NewRootCommand creates the base command and its subcommands
func NewRootCommand(container *Container) *cobra.Command {
	if container == nil {
		container = &Container{}
	}

	var rootCmd = &cobra.Command{
		Use:   "sheepit-settings",
		Short: "Inspect and edit SheepIt render farm client settings",
		Long: `sheepit-settings reads and writes the settings file of the SheepIt
render farm client and shows how stored settings combine with command line
values.

Values given on the command line always win over the settings file, and the
settings file wins over built-in defaults.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String(config.FlagSettings, "", "Settings file path (default is $HOME/.sheepit.conf)")
	rootCmd.PersistentFlags().String(config.FlagLogLevel, "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool(config.FlagLogPretty, false, "Human readable log output")

	rootCmd.AddCommand(NewShowCommand(container))
	rootCmd.AddCommand(NewPathCommand(container))
	rootCmd.AddCommand(NewSaveCommand(container))
	rootCmd.AddCommand(NewMergeCommand(container))
	rootCmd.AddCommand(NewGPUsCommand(container))

	return rootCmd
}

// prepare loads configuration and fills in missing dependencies
func prepare(cmd *cobra.Command, container *Container) error {
	if container.Config == nil {
		cfg, err := config.LoadWithFlags(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		container.Config = cfg
	}

	logger.Init(container.Config.Logging.Level, container.Config.Logging.Pretty)

	if container.Store == nil {
		container.Store = store.NewFileStore(container.Config.Settings.Path)
	}
	if container.Devices == nil {
		if container.Config.Hardware.DetectGPUs {
			container.Devices = hardware.NewDetector()
		} else {
			container.Devices = hardware.NewFixedDetector()
		}
	}

	logger.Log.Debug().
		Str("command", cmd.Name()).
		Str("settings_path", container.Store.Path()).
		Bool("detect_gpus", container.Config.Hardware.DetectGPUs).
		Msg("Command prepared")

	return nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}
