// Command listing lists database tables with coodoo-listing filter, sort and
// pagination parameters.
//
// Logging:
//   - The base logger writes text to stderr at --log-level (or the level
//     from the configuration file)
//   - The logger is handed to the listing service and the stores
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "listing",
		Short:         "Filter, sort and page database tables",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "configuration file (yaml, json, toml or properties)")
	root.PersistentFlags().String("driver", driverDuckDB, "database driver: duckdb or postgres")
	root.PersistentFlags().String("dsn", "", "data source name (default: in-memory DuckDB)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringArray("init", nil, "SQL statement run before listing (repeatable, duckdb only)")

	root.AddCommand(
		newQueryCmd(),
		newServeCmd(),
		newTokenCmd(),
		newFieldsCmd(),
	)
	return root
}
