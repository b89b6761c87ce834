package nutrigoal

import (
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

var (
	todayDate string
	todayJSON bool
	todaySeed int64
	todayAll  bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Score a day's intake and suggest what to eat more or less of",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseDateOrToday(todayDate)
		if err != nil {
			return err
		}
		var rng nutrition.Shuffler = nutrition.NewShuffler()
		if cmd.Flags().Changed("seed") {
			rng = rand.New(rand.NewSource(todaySeed))
		}
		return withDB(func(sqldb *sql.DB) error {
			userID, err := resolveUser(sqldb)
			if err != nil {
				return err
			}
			tables, err := loadTables(sqldb)
			if err != nil {
				return err
			}
			report, err := service.BuildDayReport(sqldb, tables, userID, target, rng)
			if err != nil {
				return err
			}
			if todayJSON {
				return printJSON(cmd.OutOrStdout(), "day report", report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s (%d entries)\n", report.Date, report.Entries)
			if report.CalorieGoal > 0 {
				fmt.Fprintf(out, "Calories: %.0f / %d kcal\n", report.Totals[nutrition.Calories], report.CalorieGoal)
			} else {
				fmt.Fprintf(out, "Calories: %.0f kcal (no goal)\n", report.Totals[nutrition.Calories])
			}
			fmt.Fprintf(out, "Health score: %.0f (%s)\n", report.Score.Score, report.Band)
			if todayAll {
				printGoalTable(out, report.Goals, report.Totals)
			}
			s := report.Suggestions
			if s.Empty {
				fmt.Fprintln(out, s.Prompt)
				return nil
			}
			fmt.Fprintln(out, s.LackingText)
			fmt.Fprintln(out, s.OverText)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Output JSON")
	todayCmd.Flags().Int64Var(&todaySeed, "seed", 0, "Seed for ordering tied suggestions (default random)")
	todayCmd.Flags().BoolVar(&todayAll, "nutrients", false, "Show every nutrient against its goal")
}
