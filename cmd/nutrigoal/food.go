package nutrigoal

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/importer"
	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

var (
	foodName            string
	foodBrand           string
	foodServings        float64
	foodServingSize     string
	foodCalories        float64
	foodNutrients       []string
	foodNutrientsJSON   string
	foodJSON            bool
	foodListLimit       int
	foodImportLimit     int
	foodMinCompleteness float64
	foodKeepDuplicates  bool
	foodProvider        string
	foodSearchLimit     int
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the local food database",
}

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food manually",
	RunE: func(cmd *cobra.Command, args []string) error {
		nutrients, err := service.ParseNutrientsJSON(foodNutrientsJSON)
		if err != nil {
			return err
		}
		pairs, err := service.ParseNutrientAssignments(foodNutrients)
		if err != nil {
			return err
		}
		for k, v := range pairs {
			nutrients[k] = v
		}
		f := model.Food{
			Name:        foodName,
			Brand:       foodBrand,
			ServingSize: foodServingSize,
			Nutrients:   nutrients,
		}
		if cmd.Flags().Changed("servings") {
			v := foodServings
			f.Servings = &v
		}
		if cmd.Flags().Changed("calories") {
			v := foodCalories
			f.Calories = &v
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateFood(sqldb, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d\n", id)
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one food with all known nutrients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("food id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.GetFood(sqldb, id)
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("food %d not found", id)
			}
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), "food", f)
			}
			printFood(cmd, *f)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List foods, optionally filtered by name or brand",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb, query, foodListLimit)
			if err != nil {
				return err
			}
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), "foods", foods)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tBRAND\tKCAL\tSERVING\tSOURCE")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Brand, optionalAmount(f.Calories), f.ServingSize, f.SourceType)
			}
			return nil
		})
	},
}

var foodImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import foods from an Open Food Facts tab-separated export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer f.Close()
		opts := importer.Options{
			Limit:           foodImportLimit,
			MinCompleteness: foodMinCompleteness,
			KeepDuplicates:  foodKeepDuplicates,
		}
		return withDB(func(sqldb *sql.DB) error {
			stats, inserted, err := service.ImportOpenFoodFacts(sqldb, f, opts, logger.With(zap.String("file", args[0])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new foods (%d accepted of %d rows; skipped %d malformed, %d duplicates, %d low quality, %d without nutrients)\n",
				inserted, stats.Imported, stats.Rows, stats.Malformed, stats.Duplicates, stats.LowQuality, stats.NoNutrients)
			return nil
		})
	},
}

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Fetch a packaged food by barcode and store it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			res, err := service.LookupBarcode(cmd.Context(), sqldb, args[0], foodProvider)
			if err != nil {
				return err
			}
			logger.Debug("barcode lookup", zap.String("barcode", args[0]), zap.String("provider", res.Provider),
				zap.Bool("from_cache", res.FromCache), zap.Strings("trail", res.Trail))
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), "barcode lookup", res)
			}
			source := "live"
			if res.FromCache {
				source = "cache"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Provider: %s (%s)\n", res.Provider, source)
			printFood(cmd, res.Food)
			return nil
		})
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Open Food Facts by name without storing results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.SearchOpenFoodFacts(cmd.Context(), sqldb, query, foodSearchLimit)
			if err != nil {
				return err
			}
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), "search results", foods)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "BARCODE\tNAME\tBRAND\tKCAL/100g")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", f.SourceRef, f.Name, f.Brand, optionalAmount(f.Calories))
			}
			return nil
		})
	},
}

func printFood(cmd *cobra.Command, f model.Food) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Food %d: %s\n", f.ID, f.Name)
	if f.Brand != "" {
		fmt.Fprintf(out, "Brand: %s\n", f.Brand)
	}
	fmt.Fprintf(out, "Serving: %s | Servings: %s\n", f.ServingSize, optionalAmount(f.Servings))
	fmt.Fprintf(out, "Calories: %s\n", optionalAmount(f.Calories))
	fmt.Fprintf(out, "Source: %s %s\n", f.SourceType, f.SourceRef)
	for _, k := range service.SortedNutrientKeys(f.Nutrients) {
		unit := ""
		if n, ok := nutrition.Lookup(k); ok {
			unit = " " + n.Unit
		}
		fmt.Fprintf(out, "  %s: %s%s\n", k, formatAmount(f.Nutrients[k]), unit)
	}
}

func optionalAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatAmount(*v)
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodShowCmd, foodListCmd, foodImportCmd, foodLookupCmd, foodSearchCmd)

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().StringVar(&foodBrand, "brand", "", "Brand")
	foodAddCmd.Flags().Float64Var(&foodServings, "servings", 1, "Servings the calorie amount covers")
	foodAddCmd.Flags().StringVar(&foodServingSize, "serving-size", "", "Serving size label, e.g. \"1 cup\"")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories for the stated servings")
	foodAddCmd.Flags().StringArrayVar(&foodNutrients, "nutrient", nil, "Nutrient amount as key=value (repeatable)")
	foodAddCmd.Flags().StringVar(&foodNutrientsJSON, "nutrients-json", "", "Nutrients as a JSON object")
	_ = foodAddCmd.MarkFlagRequired("name")

	for _, c := range []*cobra.Command{foodShowCmd, foodListCmd, foodLookupCmd, foodSearchCmd} {
		c.Flags().BoolVar(&foodJSON, "json", false, "Output JSON")
	}
	foodListCmd.Flags().IntVar(&foodListLimit, "limit", 50, "Max foods to list")
	foodImportCmd.Flags().IntVar(&foodImportLimit, "limit", 0, "Stop after this many imported foods (0 = no limit)")
	foodImportCmd.Flags().Float64Var(&foodMinCompleteness, "min-completeness", importer.DefaultMinCompleteness, "Skip rows below this completeness score when the export has one")
	foodImportCmd.Flags().BoolVar(&foodKeepDuplicates, "keep-duplicates", false, "Keep rows repeating an earlier name and brand")
	foodLookupCmd.Flags().StringVar(&foodProvider, "provider", "", "Restrict lookup to one provider (openfoodfacts or usda)")
	foodSearchCmd.Flags().IntVar(&foodSearchLimit, "limit", 10, "Max search results")
}
