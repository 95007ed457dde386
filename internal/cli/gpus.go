package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

// NewGPUsCommand creates the gpus command
func NewGPUsCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "gpus",
		Short: "List detected GPUs",
		Long: `List the GPUs found on this machine. The ID column is the value to store
as compute-gpu or pass to --gpu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := container.Devices.Devices()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No GPUs detected")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODEL\tMEMORY\tBUCKET SIZE")
			for _, device := range devices {
				memory := "unknown"
				if device.MemoryBytes() > 0 {
					memory = units.BytesSize(float64(device.MemoryBytes()))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", device.ID(), device.Model(), memory, device.RecommendedBucketSize())
			}
			return tw.Flush()
		},
	}
}
