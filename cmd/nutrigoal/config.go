package nutrigoal

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutrigoal/internal/service"
)

var configKeys = map[string]string{
	service.ConfigReferenceTables:      "Path to the reference tables workbook (.xlsx) or CSV directory",
	service.ConfigOpenFoodFactsBaseURL: "Open Food Facts API base URL",
	service.ConfigUSDAAPIKey:           "FoodData Central API key for barcode fallback",
	service.ConfigBarcodeProviders:     "Barcode provider order, comma-separated (openfoodfacts,usda)",
	service.ConfigDefaultUser:          "Profile used when --user is omitted",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nutrigoal local configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := configKey(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetConfig(sqldb, key, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one configuration value, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if len(args) == 1 {
				key, err := configKey(args[0])
				if err != nil {
					return err
				}
				v, ok, err := service.GetConfig(sqldb, key)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s is not set", key)
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				v := cfg[k]
				if k == service.ConfigUSDAAPIKey && v != "" {
					v = "(set)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, v)
			}
			return nil
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := configKey(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteConfig(sqldb, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
			return nil
		})
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	Run: func(cmd *cobra.Command, args []string) {
		keys := make([]string, 0, len(configKeys))
		for k := range configKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, configKeys[k])
		}
	},
}

func configKey(raw string) (string, error) {
	key := strings.TrimSpace(strings.ToLower(raw))
	if _, ok := configKeys[key]; !ok {
		return "", fmt.Errorf("unknown config key %q (see `nutrigoal config keys`)", raw)
	}
	return key, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configUnsetCmd, configKeysCmd)
}
