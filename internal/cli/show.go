package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

// NewShowCommand creates the show command
func NewShowCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored settings",
		Long: `Show the settings stored in the settings file. The password and proxy
are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := container.Store.Load()
			printSnapshot(cmd.OutOrStdout(), container.Store.Path(), snap)
			return nil
		},
	}
}

// NewPathCommand creates the path command
func NewPathCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), container.Store.Path())
			return err
		},
	}
}

func printSnapshot(w io.Writer, path string, snap *models.Snapshot) {
	fmt.Fprintf(w, "Settings file: %s\n", path)
	fmt.Fprintln(w, snap.String())

	if len(snap.Extra) == 0 {
		return
	}
	keys := make([]string, 0, len(snap.Extra))
	for key := range snap.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "Unrecognized keys (kept on save):")
	for _, key := range keys {
		fmt.Fprintf(w, "  %s = %s\n", key, snap.Extra[key])
	}
}
