/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"attendly/config"
	"attendly/internal/logging"
	"attendly/reconcile"
	"attendly/storage"
)

const envPrefix = "ATTENDLY"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "attendly",
	Short: "Import clock punches and rosters, curate attendance, and compute leave.",
	Long: `
**********************************************
*                 ATTENDLY                   *
**********************************************

This CLI imports clock punches, rosters and public holidays (Excel, CSV, device TSV)
into a local SQLite database, lets you curate each employee-day, classifies days
against their roster (late, early leave, overtime, absent), computes leave durations
and exports the results to CSV or Excel.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
- Device exports: .tsv, .txt (UTF-8 or UTF-16 with BOM)
- Holiday calendars: .json
`,
	Example: `
  # Create configuration file
  attendly config create

  # Import punches and rosters, then classify every day
  attendly import clock -i punches-2024-03.csv
  attendly import roster -i roster-2024-03.xlsx
  attendly reconcile

  # Import the public holiday calendar of a year
  attendly import holiday -i holidays-2024.json --year 2024

  # Compute a leave duration
  attendly leave compute --start 2024-03-04 --end 2024-03-08

  # Export attendance remarks
  attendly export --mode attendance --output ./attendance.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.attendly.yaml, then ./.attendly.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to local SQLite database (overrides database.path)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides log.level)")
	cobra.CheckErr(viper.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db")))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env failed:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".attendly" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".attendly")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: attendly config create")
	}
}

// loadRuntime validates the active configuration and builds the logger every
// command logs through.
func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	return storage.OpenSQLite(cfg.Database.Path)
}

// reconcileOptions builds comparator options from config. A non-empty mode
// overrides attendance.cross_midnight_mode.
func reconcileOptions(cfg *config.Config, modeOverride string) (reconcile.Options, error) {
	mode := cfg.Attendance.CrossMidnightMode
	if strings.TrimSpace(modeOverride) != "" {
		mode = modeOverride
	}
	parsed, err := reconcile.ParseMode(mode)
	if err != nil {
		return reconcile.Options{}, err
	}
	return reconcile.Options{Mode: parsed}.WithOvertimeThreshold(cfg.Attendance.OvertimeThresholdMinutes), nil
}
