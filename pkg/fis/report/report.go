// Package report turns inference results into run records and renders them
// for people and machines.
package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/fis/pkg/fis/inference"
	"github.com/cognicore/fis/pkg/fis/store"
	"github.com/cognicore/fis/pkg/fis/variable"
)

// Builder constructs run records with sortable unique IDs
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new run builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Build records a finished run: the crisp inputs it used, every rule's
// firing degree, and the final function of each output value.
func (b *Builder) Build(source string, vars *variable.Collection, res inference.Result, outputs []*variable.Definition) store.Run {
	b.mu.Lock()
	now := b.now()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	run := store.Run{
		ID:        id,
		Source:    source,
		CreatedAt: now.UTC(),
		Inputs:    vars.Inputs(),
		Firings:   make([]store.Firing, 0, len(res.Firings)),
		Outputs:   []store.OutputValue{},
	}

	for _, f := range res.Firings {
		run.Firings = append(run.Firings, store.Firing{
			Index:    f.Index,
			Rule:     f.Rule,
			Output:   f.Output,
			Degree:   f.Degree,
			Function: store.Snapshot(f.After),
		})
	}

	for _, def := range outputs {
		for _, v := range def.Values {
			run.Outputs = append(run.Outputs, store.OutputValue{
				Variable: def.Name,
				Label:    v.Label,
				Function: store.Snapshot(v.Function),
			})
		}
	}

	return run
}
