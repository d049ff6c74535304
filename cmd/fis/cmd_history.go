package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/report"
	"github.com/cognicore/fis/pkg/fis/store"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, strconv.Itoa(len(r.Firings))})
			}
			return report.WriteTable(cmd.OutOrStdout(), []string{"ID", "CREATED", "SOURCE", "RULES"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "Maximum runs to list")
	return cmd
}

func newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer st.Close()

			run, ok, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("run %s: %w", args[0], internalerr.ErrNotFound)
			}
			return report.Render(cmd.OutOrStdout(), f, run)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or html")
	return cmd
}
