package nutrigoal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/app"
	"github.com/saadjs/nutrigoal/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local nutrigoal database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}

		sqldb, err := db.Open(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		if err := db.ApplyMigrations(sqldb); err != nil {
			return err
		}
		version, err := db.Version(sqldb)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized nutrigoal database at %s (schema v%d)\n", path, version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
