package nutrigoal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/logging"
)

const envLogLevel = "NUTRIGOAL_LOG_LEVEL"

var (
	dbPath    string
	userFlag  string
	logLevel  string
	logFormat string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "nutrigoal",
	Short: "nutrigoal scores your daily nutrition against personal goals",
	Long:  "nutrigoal is a local-first food diary that derives calorie and nutrient goals from your profile and scores each day against them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
				level = v
			}
		}
		l, err := logging.New(level, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default $NUTRIGOAL_DB or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Profile user id (default: the configured default user)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error (env "+envLogLevel+")")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")
}
