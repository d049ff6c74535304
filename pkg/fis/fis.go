// Package fis is the entry point for evaluating a Mamdani-style fuzzy rule
// base: load a spec, set crisp inputs, execute the rules, and read the
// truncated output membership functions.
package fis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/cognicore/fis/pkg/fis/config"
	"github.com/cognicore/fis/pkg/fis/inference"
	"github.com/cognicore/fis/pkg/fis/inference/simple"
	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/report"
	"github.com/cognicore/fis/pkg/fis/rule"
	"github.com/cognicore/fis/pkg/fis/store"
	"github.com/cognicore/fis/pkg/fis/variable"
)

// FIS is a loaded fuzzy inference system.
// It is not safe for concurrent use: execution mutates output functions.
type FIS struct {
	model   *config.Model
	engine  inference.Engine
	store   store.Store
	builder *report.Builder
	logger  *zap.Logger
}

// Options configures a FIS instance
type Options struct {
	Engine  inference.Engine // defaults to the sequential engine
	Store   store.Store      // optional run history
	Builder *report.Builder  // defaults to a fresh builder
	Logger  *zap.Logger      // defaults to a no-op logger
}

// New creates a FIS around an already built model
func New(model *config.Model, opts Options) *FIS {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := opts.Engine
	if engine == nil {
		engine = simple.New(simple.WithLogger(logger))
	}
	builder := opts.Builder
	if builder == nil {
		builder = report.New()
	}
	return &FIS{
		model:   model,
		engine:  engine,
		store:   opts.Store,
		builder: builder,
		logger:  logger,
	}
}

// Load reads the loader's files and creates a FIS
func Load(loader config.Loader, opts Options) (*FIS, error) {
	model, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return New(model, opts), nil
}

// Close releases the run store, if any
func (f *FIS) Close() error {
	if f.store == nil {
		return nil
	}
	return f.store.Close()
}

// Inputs returns the input variables and their current crisp values
func (f *FIS) Inputs() *variable.Collection { return f.model.Inputs }

// Outputs returns the output variables. After Execute, each value's
// Function is the truncated result.
func (f *FIS) Outputs() []*variable.Definition { return f.model.Outputs }

// Rules returns the rule base in evaluation order
func (f *FIS) Rules() []*rule.Rule { return f.model.Rules }

// SetInput sets the crisp value of an input variable. x must be finite.
func (f *FIS) SetInput(name string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("set input %s = %g: %w", name, x, internalerr.ErrInvalidInput)
	}
	if _, ok := f.model.Inputs.Definition(name); !ok {
		return fmt.Errorf("set input %s: %w", name, internalerr.ErrUnknownVariable)
	}
	f.model.Inputs.AddInput(name, x)
	return nil
}

// Execute applies inputs on top of the current ones and runs every rule
// once. Output functions are truncated in place and stay truncated until
// Reset, so executing twice compounds.
func (f *FIS) Execute(inputs map[string]float64) (inference.Result, error) {
	for _, name := range sortedNames(inputs) {
		if err := f.SetInput(name, inputs[name]); err != nil {
			return inference.Result{}, err
		}
	}

	f.logger.Debug("executing rule base",
		zap.Int("rules", len(f.model.Rules)),
		zap.Any("inputs", f.model.Inputs.Inputs()),
	)
	return f.engine.Execute(f.model.Rules, f.model.Inputs)
}

// Reset restores every output value to its loaded membership function
func (f *FIS) Reset() {
	for _, def := range f.model.Outputs {
		def.Reset()
	}
}

// Run executes the rule base and records the outcome, persisting it when a
// store is configured.
func (f *FIS) Run(ctx context.Context, source string, inputs map[string]float64) (store.Run, error) {
	res, err := f.Execute(inputs)
	if err != nil {
		return store.Run{}, err
	}

	run := f.builder.Build(source, f.model.Inputs, res, f.model.Outputs)
	if f.store != nil {
		if err := f.store.SaveRun(ctx, run); err != nil {
			return run, fmt.Errorf("save run: %w", err)
		}
		f.logger.Info("run saved", zap.String("id", run.ID), zap.String("source", source))
	}
	return run, nil
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
