package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rawload",
	Short: "Load a directory of CSV files into raw database tables",
	Long: `rawload discovers the CSV files of a source directory and loads each one
into its own table in a raw schema: file and column names become identifiers,
column types are inferred from the values, rows are inserted in chunked
transactions and every table is checked against its source row count.

The raw tables are the input of the downstream transformation stage.

Exit Codes:
  0  - Success (every table loaded and validated)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - No source files found
  13 - A file could not be mapped to a table
  14 - One or more insert chunks failed
  15 - Loaded row count differs from the source`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for rawload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
