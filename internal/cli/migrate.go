package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// bootstrap migrates as part of opening the database.
			rt, err := a.bootstrap(cmd.Context(), "migrate", false)
			if err != nil {
				return err
			}
			defer rt.Close()

			fmt.Fprintf(a.stdout, "migrations applied (%s)\n", rt.cfg.DBDriver)
			return nil
		},
	}
}
