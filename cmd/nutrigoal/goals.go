package nutrigoal

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

var goalsJSON bool

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show the calorie goal and daily nutrient targets for a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			userID, err := resolveUser(sqldb)
			if err != nil {
				return err
			}
			p, err := service.RequireProfile(sqldb, userID)
			if err != nil {
				return err
			}
			tables, err := loadTables(sqldb)
			if err != nil {
				return err
			}
			goals := service.ComputeProfileGoals(*p, tables)
			if goalsJSON {
				return printJSON(cmd.OutOrStdout(), "goals", goals)
			}
			out := cmd.OutOrStdout()
			if goals.CalorieGoal > 0 {
				fmt.Fprintf(out, "Calorie goal: %d kcal (%s)\n", goals.CalorieGoal, goals.Mode)
			} else {
				fmt.Fprintln(out, "Calorie goal: unknown (profile lacks the data for an estimate)")
			}
			printGoalTable(out, goals.Goals, nil)
			return nil
		})
	},
}

// loadTables loads the configured reference tables, returning empty tables
// with a warning when none are configured.
func loadTables(sqldb *sql.DB) (model.ReferenceTables, error) {
	tables, configured, err := service.LoadReferenceTables(sqldb, logger)
	if err != nil {
		return model.ReferenceTables{}, err
	}
	if !configured {
		logger.Warn("no reference tables configured; only calorie targets are available",
			zap.String("hint", "nutrigoal config set "+service.ConfigReferenceTables+" <path>"))
	}
	return tables, nil
}

// printGoalTable lists goals in catalog order. totals may be nil.
func printGoalTable(out io.Writer, goals nutrition.GoalMap, totals nutrition.Totals) {
	if totals == nil {
		fmt.Fprintln(out, "NUTRIENT\tGOAL\tUNIT")
	} else {
		fmt.Fprintln(out, "NUTRIENT\tTOTAL\tGOAL\tUNIT\tPCT")
	}
	for _, n := range nutrition.Catalog() {
		goal, ok := goals.Get(n.Key)
		if !ok {
			continue
		}
		if totals == nil {
			fmt.Fprintf(out, "%s\t%s\t%s\n", n.Label, formatAmount(goal), n.Unit)
			continue
		}
		pct := "-"
		if goal > 0 {
			pct = fmt.Sprintf("%.0f%%", totals[n.Key]/goal*100)
		}
		fmt.Fprintf(out, "%s\t%.1f\t%s\t%s\t%s\n", n.Label, totals[n.Key], formatAmount(goal), n.Unit, pct)
	}
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.Flags().BoolVar(&goalsJSON, "json", false, "Output JSON")
}
