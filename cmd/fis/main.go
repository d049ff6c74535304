// Command fis evaluates fuzzy inference specs and browses saved runs.
//
// Usage:
//
//	fis run water.fis --set Agua=7.5
//	fis run a.fis b.yaml --format json --db runs.db
//	fis history --db runs.db
//	fis show --db runs.db 01HX...
//	fis convert water.fis --to yaml
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/fis/pkg/fis/store"
	"github.com/cognicore/fis/pkg/fis/store/sqlite"
)

var (
	verbose bool
	dbPath  string
	logger  = zap.NewNop()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fis",
		Short:         "Fuzzy inference system runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database for run history")

	root.AddCommand(newRunCmd(), newHistoryCmd(), newShowCmd(), newConvertCmd())
	return root
}

// openStore opens the run history, or returns nil when --db is unset
func openStore(ctx context.Context, required bool) (store.Store, error) {
	if dbPath == "" {
		if required {
			return nil, fmt.Errorf("--db is required")
		}
		return nil, nil
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "fis:", err)
		os.Exit(1)
	}
}
