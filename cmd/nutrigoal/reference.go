package nutrigoal

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/reftable"
	"github.com/saadjs/nutrigoal/internal/service"
)

var referencePath string

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Inspect the dietary reference tables",
}

var referenceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the reference tables and report which rows apply to a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			var (
				tables model.ReferenceTables
				err    error
			)
			path := referencePath
			if path != "" {
				tables, err = reftable.Load(path, logger)
			} else {
				var configured bool
				tables, configured, err = service.LoadReferenceTables(sqldb, logger)
				if err == nil && !configured {
					return fmt.Errorf("no reference tables configured; pass --path or run `nutrigoal config set %s <path>`", service.ConfigReferenceTables)
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows\n", reftable.TableMacroRanges, len(tables.MacroRanges))
			fmt.Fprintf(out, "%s: %d rows\n", reftable.TableMacroRDA, len(tables.MacroRDA))
			fmt.Fprintf(out, "%s: %d rows\n", reftable.TableMicroRDA, len(tables.MicroRDA))

			userID, err := service.ResolveUserID(sqldb, userFlag)
			if err != nil {
				fmt.Fprintln(out, "No profile selected; skipping row resolution")
				return nil
			}
			p, err := service.GetProfile(sqldb, userID)
			if err != nil || p == nil {
				return err
			}
			res := nutrition.ResolveReference(*p, tables)
			fmt.Fprintf(out, "Profile %s resolves to life stage %s\n", p.UserID, res.LifeStage)
			fmt.Fprintf(out, "  macro ranges: %s\n", describeRanges(res.MacroRanges))
			fmt.Fprintf(out, "  macro RDA row: %s\n", describeRow(res.MacroRDA))
			fmt.Fprintf(out, "  micro RDA row: %s\n", describeRow(res.MicroRDA))
			return nil
		})
	},
}

func describeRow(r *model.ReferenceRow) string {
	if r == nil {
		return "none"
	}
	return fmt.Sprintf("%s %s (%d values)", r.LifeStage, r.AgeBand, len(r.Values))
}

func describeRanges(ranges map[string]string) string {
	if len(ranges) == 0 {
		return "none"
	}
	s := ""
	for _, key := range []string{nutrition.TotalCarbs, nutrition.Protein, nutrition.TotalFats} {
		if v, ok := ranges[key]; ok {
			if s != "" {
				s += ", "
			}
			s += nutrition.Label(key) + " " + v + "%"
		}
	}
	return s
}

func init() {
	rootCmd.AddCommand(referenceCmd)
	referenceCmd.AddCommand(referenceCheckCmd)
	referenceCheckCmd.Flags().StringVar(&referencePath, "path", "", "Workbook or CSV directory to check instead of the configured one")
}
