package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/sheepit-settings/internal/models"
	"github.com/stwalsh4118/sheepit-settings/internal/resolver"
)

// NewSaveCommand creates the save command
func NewSaveCommand(container *Container) *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write settings from flags",
		Long: `Write the settings given as flags to the settings file. The file is
replaced; settings not given are not stored. Use merge --save to keep the
existing settings and change only some of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.clientConfig(cmd.Flags(), container.Devices)
			if err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			snap := models.SnapshotFromConfig(cfg)
			if err := container.Store.Save(snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", container.Store.Path())
			return nil
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

// NewMergeCommand creates the merge command
func NewMergeCommand(container *Container) *cobra.Command {
	var flags clientFlags
	var save bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Combine flags with stored settings",
		Long: `Combine the settings given as flags with the settings file and print the
effective client configuration. Flags win over stored values, stored values
win over defaults. With --save the effective configuration is written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.clientConfig(cmd.Flags(), container.Devices)
			if err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			stored := container.Store.Load()
			res, err := resolver.New(container.Devices).Resolve(stored, cfg)
			if err != nil {
				return err
			}
			res.Apply(cfg)

			out := cmd.OutOrStdout()
			printResolution(out, res, cfg)

			if !save {
				return nil
			}
			snap := models.SnapshotFromConfig(cfg)
			snap.Extra = stored.Extra
			if err := container.Store.Save(snap); err != nil {
				return err
			}
			fmt.Fprintf(out, "Settings saved to %s\n", container.Store.Path())
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the settings file")

	return cmd
}

func printResolution(w io.Writer, res *resolver.Resolution, cfg *models.ClientConfig) {
	fmt.Fprintln(w, "Effective configuration:")
	fmt.Fprintln(w, cfg.String())
	for _, fieldErr := range res.Errors {
		fmt.Fprintf(w, "Ignored: %s\n", fieldErr.Error())
	}
}
