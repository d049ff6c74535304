package store

import (
	"context"
	"time"

	"github.com/cognicore/fis/pkg/fis/membership"
)

// Store persists the history of inference runs
type Store interface {
	Close() error

	// SaveRun stores a run. IDs are unique; saving an existing ID fails
	// with internalerr.ErrDuplicate.
	SaveRun(ctx context.Context, r Run) error

	// GetRun returns the run with the given ID, reporting absence through ok
	GetRun(ctx context.Context, id string) (Run, bool, error)

	// ListRuns returns up to limit runs, newest first
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is the record of one evaluation of a rule base
type Run struct {
	ID        string
	Source    string // spec file or other origin
	CreatedAt time.Time
	Inputs    map[string]float64
	Firings   []Firing
	Outputs   []OutputValue
}

// Firing is one rule's firing strength within a run, with the shape its
// output value had right after the rule truncated it.
type Firing struct {
	Index    int
	Rule     string
	Output   string
	Degree   float64
	Function FunctionSnapshot
}

// OutputValue is the final membership function of one output value
type OutputValue struct {
	Variable string
	Label    string
	Function FunctionSnapshot
}

// FunctionSnapshot is the serializable form of a membership function
type FunctionSnapshot struct {
	Kind   membership.Kind    `json:"kind"`
	Points []membership.Point `json:"points"`
}

// Snapshot captures fn. A nil fn yields the zero snapshot.
func Snapshot(fn membership.Function) FunctionSnapshot {
	if fn == nil {
		return FunctionSnapshot{}
	}
	return FunctionSnapshot{Kind: fn.Kind(), Points: fn.Points()}
}

// Function rebuilds the membership function
func (s FunctionSnapshot) Function() (membership.Function, error) {
	return membership.FromPoints(s.Kind, s.Points)
}

// DefaultListLimit applies when ListRuns is called with limit <= 0
const DefaultListLimit = 20

// CopyRun returns a deep copy of r
func CopyRun(r Run) Run {
	out := r
	if r.Inputs != nil {
		out.Inputs = make(map[string]float64, len(r.Inputs))
		for k, v := range r.Inputs {
			out.Inputs[k] = v
		}
	}
	out.Firings = append([]Firing(nil), r.Firings...)
	for i := range out.Firings {
		out.Firings[i].Function.Points = append([]membership.Point(nil), r.Firings[i].Function.Points...)
	}
	if r.Outputs != nil {
		out.Outputs = make([]OutputValue, len(r.Outputs))
		for i, o := range r.Outputs {
			o.Function.Points = append([]membership.Point(nil), o.Function.Points...)
			out.Outputs[i] = o
		}
	}
	return out
}
