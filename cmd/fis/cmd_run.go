package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/fis/pkg/fis"
	"github.com/cognicore/fis/pkg/fis/config"
	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/report"
	"github.com/cognicore/fis/pkg/fis/store"
)

type runOptions struct {
	inputsPath  string
	sets        []string
	format      string
	concurrency int
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run SPEC...",
		Short: "Evaluate one or more spec files",
		Long: `Loads each spec (text format, or YAML for .yaml/.yml), applies the crisp
inputs and executes every rule once. Specs are independent and evaluated
concurrently; reports are printed in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecs(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputsPath, "inputs", "", "YAML file of crisp inputs")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Crisp input override, Name=value (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or html")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "Maximum specs evaluated at once")
	return cmd
}

func runSpecs(cmd *cobra.Command, paths []string, opts runOptions) error {
	ctx := cmd.Context()

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	overrides, err := parseSets(opts.sets)
	if err != nil {
		return err
	}
	if opts.concurrency < 1 {
		return fmt.Errorf("concurrency %d: %w", opts.concurrency, internalerr.ErrInvalidInput)
	}

	st, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	builder := report.New()
	runs := make([]store.Run, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			loader := config.Loader{SpecPath: path, InputsPath: opts.inputsPath, Inputs: overrides}
			// The store is shared and closed above, so the FIS is never closed here.
			f, err := fis.Load(loader, fis.Options{
				Store:   st,
				Builder: builder,
				Logger:  logger.With(zap.String("spec", path)),
			})
			if err != nil {
				return err
			}
			run, err := f.Run(gctx, path, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return report.Render(cmd.OutOrStdout(), format, runs...)
}

// parseSets turns Name=value flags into an input map. Later flags win.
func parseSets(sets []string) (map[string]float64, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: want Name=value: %w", s, internalerr.ErrInvalidInput)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("--set %q: %w", s, internalerr.ErrInvalidInput)
		}
		out[name] = x
	}
	return out, nil
}
