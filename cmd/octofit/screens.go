package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/octofit/internal/adapters/http/client"
)

var screenShort = map[client.Resource]string{ //nolint:gochecknoglobals // immutable
	client.Users:       "List users with their team",
	client.Teams:       "List teams and their members",
	client.Activities:  "List logged activities",
	client.Leaderboard: "Show the competitive leaderboard",
	client.Workouts:    "List suggested workouts",
}

func newScreenCmds(rt *cli) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(client.Resources))
	for _, r := range client.Resources {
		cmds = append(cmds, &cobra.Command{
			Use:   string(r),
			Short: screenShort[r],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return rt.app.Show(cmd.Context(), r, rt.opts.Filter)
			},
		})
	}
	return cmds
}
