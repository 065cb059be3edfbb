package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"attendly/config"
	"attendly/storage"
)

// sqliteSidecars are the files SQLite keeps next to the database.
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the complete SQLite database file",
	Long: `Destructive database cleanup command.

This command always deletes the complete SQLite database file, including
imported punches, rosters, holidays, leave requests and attendance remarks,
together with SQLite's -wal, -shm and -journal files. The prompt shows how many
records of each kind are stored; typing exactly "Y" confirms.`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  attendly delete --db ./attendly.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		deleteDBPath := cfg.Database.Path
		if err := checkDatabaseFile(deleteDBPath); err != nil {
			return err
		}

		summary, err := databaseSummary(deleteDBPath)
		if err != nil {
			return err
		}

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, deleteDBPath, summary)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if err := removeDatabaseFile(deleteDBPath); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", deleteDBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

// databaseSummary describes what deleting the database would lose.
func databaseSummary(path string) (string, error) {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return "", err
	}
	return describeStats(stats), nil
}

func describeStats(stats storage.Stats) string {
	return fmt.Sprintf(
		"%d punches, %d rosters, %d holidays, %d leave requests, %d attendance remarks",
		stats.ClockEvents,
		stats.Rosters,
		stats.Holidays,
		stats.LeaveRequests,
		stats.Remarks,
	)
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path, summary string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if summary != "" {
		if _, err := fmt.Fprintf(output, "%s holds %s.\n", path, summary); err != nil {
			return false, fmt.Errorf("write delete confirmation prompt: %w", err)
		}
	}
	if _, err := fmt.Fprintf(output, "Delete database file %q? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func checkDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	return nil
}

// removeDatabaseFile deletes the database and any SQLite sidecar files.
func removeDatabaseFile(path string) error {
	if err := checkDatabaseFile(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	for _, suffix := range sqliteSidecars {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", path+suffix, err)
		}
	}
	return nil
}
