package simple

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/fis/pkg/fis/inference"
	"github.com/cognicore/fis/pkg/fis/rule"
	"github.com/cognicore/fis/pkg/fis/variable"
)

// Engine is the Mamdani-style inference loop: rules run one after another
// on the calling goroutine, each truncating its output value in place.
// Later rules see the truncations left by earlier ones on shared values.
type Engine struct {
	logger *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for per-rule debug output
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new sequential inference engine
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements inference.Engine. The first failing rule aborts the
// run; skipping it would change what later rules truncate. The firings
// completed before the failure are returned with the error.
func (e *Engine) Execute(rules []*rule.Rule, vars *variable.Collection) (inference.Result, error) {
	res := inference.Result{Firings: make([]inference.Firing, 0, len(rules))}

	for i, r := range rules {
		if r == nil || r.Expr == nil || r.Output == nil {
			return res, fmt.Errorf("rule %d: incomplete rule", i+1)
		}

		degree, err := r.Evaluate(vars)
		if err != nil {
			return res, fmt.Errorf("rule %d (%s): %w", i+1, r.Text, err)
		}

		if err := r.Output.Truncate(degree); err != nil {
			return res, fmt.Errorf("rule %d (%s): %w", i+1, r.Text, err)
		}

		e.logger.Debug("rule fired",
			zap.Int("rule", i+1),
			zap.String("if", r.Text),
			zap.Stringer("then", r.Output),
			zap.Float64("degree", degree),
			zap.Stringer("function", r.Output.Value.Function),
		)

		res.Firings = append(res.Firings, inference.Firing{
			Index:  i,
			Rule:   r.Text,
			Output: r.Output.String(),
			Degree: degree,
			After:  r.Output.Value.Function,
		})
	}

	return res, nil
}
