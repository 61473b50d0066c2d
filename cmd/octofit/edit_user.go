package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/octofit/internal/app"
)

func newEditUserCmd(rt *cli) *cobra.Command {
	var name, username, email, age, team string

	cmd := &cobra.Command{
		Use:   "edit-user <id> [--name N] [--username U] [--email E] [--age A] [--team T]",
		Short: "Edit one user and save it to the upstream",
		Long: "Opens the edit view for the user, applies the given fields and saves. " +
			"Fields that are not passed keep their loaded value. --team takes a team name " +
			"or team id; an empty --team removes the user from every team.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := func(flag, v string) *string {
				if !cmd.Flags().Changed(flag) {
					return nil
				}
				return &v
			}
			req := app.EditRequest{
				Name:     changed("name", name),
				Username: changed("username", username),
				Email:    changed("email", email),
				Age:      changed("age", age),
				Team:     changed("team", team),
			}
			return rt.app.EditUser(cmd.Context(), args[0], req)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&age, "age", "", "age in years; empty clears it")
	cmd.Flags().StringVar(&team, "team", "", "team name or id; empty for no team")
	return cmd
}
