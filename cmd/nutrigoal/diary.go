package nutrigoal

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

var (
	diaryAddServings  float64
	diaryAddMeal      string
	diaryAddDate      string
	diaryListDate     string
	diaryListFrom     string
	diaryListTo       string
	diaryListMeal     string
	diaryListJSON     bool
	diaryEditServings float64
	diaryEditMeal     string
	diaryEditDate     string
)

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Log and review what you ate",
}

var diaryAddCmd = &cobra.Command{
	Use:   "add <food-id>",
	Short: "Log servings of a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foodID, err := parseInt64Arg("food id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDateOrToday(diaryAddDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			userID, err := resolveUser(sqldb)
			if err != nil {
				return err
			}
			id, err := service.LogFood(sqldb, service.LogFoodInput{
				UserID:   userID,
				FoodID:   foodID,
				Date:     day,
				Meal:     model.Meal(diaryAddMeal),
				Servings: diaryAddServings,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged diary entry %d\n", id)
			return nil
		})
	},
}

var diaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			userID, err := resolveUser(sqldb)
			if err != nil {
				return err
			}
			filter := service.ListDiaryFilter{UserID: userID, Date: diaryListDate, FromDate: diaryListFrom, ToDate: diaryListTo}
			if cmd.Flags().Changed("meal") {
				filter.Meal = diaryListMeal
			}
			if filter.Date == "" && filter.FromDate == "" && filter.ToDate == "" {
				filter.Date = time.Now().Format("2006-01-02")
			}
			entries, err := service.ListDiaryEntries(sqldb, filter)
			if err != nil {
				return err
			}
			if diaryListJSON {
				return printJSON(cmd.OutOrStdout(), "diary entries", entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tMEAL\tFOOD\tAMOUNT\tKCAL")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.EatenAt.Format("2006-01-02"), e.Meal, e.Food.Name, servingText(e), entryCalories(e))
			}
			return nil
		})
	},
}

var diaryEditCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Change the servings, meal or date of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		in := service.UpdateDiaryInput{ID: id}
		if cmd.Flags().Changed("servings") {
			v := diaryEditServings
			in.Servings = &v
		}
		if cmd.Flags().Changed("meal") {
			m := model.Meal(diaryEditMeal)
			in.Meal = &m
		}
		if cmd.Flags().Changed("date") {
			d, err := service.ParseDate(diaryEditDate)
			if err != nil {
				return err
			}
			in.Date = &d
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateDiaryEntry(sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated diary entry %d\n", id)
			return nil
		})
	},
}

var diaryRemoveCmd = &cobra.Command{
	Use:     "remove <entry-id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a diary entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteDiaryEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted diary entry %d\n", id)
			return nil
		})
	},
}

var leadingQuantity = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+([A-Za-z][A-Za-z ]*)$`)

// servingText renders "2 cups" when the food's serving size is a single named
// unit such as "1 cup", and "2 x 100 g" otherwise.
func servingText(e model.DiaryEntry) string {
	if m := leadingQuantity.FindStringSubmatch(strings.TrimSpace(e.Food.ServingSize)); m != nil {
		if q, _ := strconv.ParseFloat(m[1], 64); q == 1 && len(m[2]) > 2 {
			return nutrition.FormatServings(e.Servings, m[2])
		}
	}
	if e.Food.ServingSize == "" {
		return nutrition.FormatServings(e.Servings, "serving")
	}
	return fmt.Sprintf("%s x %s", formatAmount(e.Servings), e.Food.ServingSize)
}

func entryCalories(e model.DiaryEntry) string {
	kcal := nutrition.AggregateTotals([]model.DiaryEntry{e})[nutrition.Calories]
	return strconv.FormatFloat(kcal, 'f', 0, 64)
}

func init() {
	rootCmd.AddCommand(diaryCmd)
	diaryCmd.AddCommand(diaryAddCmd, diaryListCmd, diaryEditCmd, diaryRemoveCmd)

	diaryAddCmd.Flags().Float64Var(&diaryAddServings, "servings", 1, "Servings eaten")
	diaryAddCmd.Flags().StringVar(&diaryAddMeal, "meal", "snack", "breakfast, lunch, dinner or snack")
	diaryAddCmd.Flags().StringVar(&diaryAddDate, "date", "", "Date YYYY-MM-DD (default today)")

	diaryListCmd.Flags().StringVar(&diaryListDate, "date", "", "Date YYYY-MM-DD (default today when no range is set)")
	diaryListCmd.Flags().StringVar(&diaryListFrom, "from", "", "Start date YYYY-MM-DD (inclusive)")
	diaryListCmd.Flags().StringVar(&diaryListTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	diaryListCmd.Flags().StringVar(&diaryListMeal, "meal", "", "Only this meal")
	diaryListCmd.Flags().BoolVar(&diaryListJSON, "json", false, "Output JSON")

	diaryEditCmd.Flags().Float64Var(&diaryEditServings, "servings", 0, "New servings")
	diaryEditCmd.Flags().StringVar(&diaryEditMeal, "meal", "", "New meal")
	diaryEditCmd.Flags().StringVar(&diaryEditDate, "date", "", "New date YYYY-MM-DD")
}
