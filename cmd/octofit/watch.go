package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/octofit/internal/adapters/http/client"
)

func newWatchCmd(rt *cli) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <screen>",
		Short: "Re-render a screen on an interval until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := client.ParseResource(args[0])
			if !ok {
				return fmt.Errorf("unknown screen %q", args[0])
			}
			return rt.app.Watch(cmd.Context(), r, interval, rt.opts.Filter)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh period (defaults to refresh_interval_ms)")
	return cmd
}
