// Package storetest holds behavior checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/store"
)

// SampleRun returns a fully populated run created at the given time
func SampleRun(id string, at time.Time) store.Run {
	return store.Run{
		ID:        id,
		Source:    "water.fis",
		CreatedAt: at,
		Inputs:    map[string]float64{"Agua": 2.5},
		Firings: []store.Firing{
			{
				Index: 0, Rule: "Agua = Fria", Output: "Potencia = Alta", Degree: 0.5,
				Function: store.FunctionSnapshot{
					Kind:   membership.KindTrapezoidal,
					Points: []membership.Point{{X: 10}, {X: 30}, {X: 15, Y: 0.5}, {X: 25, Y: 0.5}},
				},
			},
			{
				Index: 1, Rule: "not(Agua = Tibia)", Output: "Potencia = Baja", Degree: 1,
				Function: store.FunctionSnapshot{
					Kind:   membership.KindTriangular,
					Points: []membership.Point{{X: 0}, {X: 20}, {X: 10, Y: 1}},
				},
			},
		},
		Outputs: []store.OutputValue{
			{
				Variable: "Potencia",
				Label:    "Alta",
				Function: store.FunctionSnapshot{
					Kind:   membership.KindTrapezoidal,
					Points: []membership.Point{{X: 10}, {X: 30}, {X: 15, Y: 0.5}, {X: 25, Y: 0.5}},
				},
			},
			{
				Variable: "Potencia",
				Label:    "Baja",
				Function: store.FunctionSnapshot{
					Kind:   membership.KindTriangular,
					Points: []membership.Point{{X: 0}, {X: 20}, {X: 10, Y: 1}},
				},
			},
		},
	}
}

var timeEqual = cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })

// Run exercises open against the store.Store contract
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("SaveAndGet", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		defer st.Close()

		want := SampleRun("01ARZ3NDEKTSV4RRFFQ69G5FAV", time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC))
		if err := st.SaveRun(ctx, want); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}

		got, ok, err := st.GetRun(ctx, want.ID)
		if err != nil {
			t.Fatalf("GetRun: %v", err)
		}
		if !ok {
			t.Fatal("Run not found after save")
		}
		if diff := cmp.Diff(want, got, timeEqual); diff != "" {
			t.Errorf("Run mismatch (-want +got):\n%s", diff)
		}

		fn, err := got.Outputs[0].Function.Function()
		if err != nil {
			t.Fatalf("Function: %v", err)
		}
		if fn.Evaluate(20) != 0.5 {
			t.Errorf("Restored function should have plateau 0.5, got %g", fn.Evaluate(20))
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		_, ok, err := st.GetRun(context.Background(), "missing")
		if err != nil {
			t.Fatalf("GetRun: %v", err)
		}
		if ok {
			t.Error("Missing run should not be found")
		}
	})

	t.Run("RejectsDuplicateAndEmptyID", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		defer st.Close()

		r := SampleRun("dup", time.Now())
		if err := st.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
		if err := st.SaveRun(ctx, r); !errors.Is(err, internalerr.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
		if err := st.SaveRun(ctx, SampleRun("", time.Now())); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		defer st.Close()

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"b", "a", "c"} {
			if err := st.SaveRun(ctx, SampleRun(id, base.Add(time.Duration(i)*time.Millisecond))); err != nil {
				t.Fatalf("SaveRun %s: %v", id, err)
			}
		}

		runs, err := st.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		ids := make([]string, len(runs))
		for i, r := range runs {
			ids[i] = r.ID
		}
		if diff := cmp.Diff([]string{"c", "a"}, ids); diff != "" {
			t.Errorf("Unexpected order (-want +got):\n%s", diff)
		}

		all, err := st.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected 3 runs with default limit, got %d", len(all))
		}
	})

	t.Run("EmptyRun", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		defer st.Close()

		r := store.Run{ID: "empty", CreatedAt: time.Now()}
		if err := st.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
		got, ok, err := st.GetRun(ctx, "empty")
		if err != nil || !ok {
			t.Fatalf("GetRun: %v %v", ok, err)
		}
		if diff := cmp.Diff(r, got, timeEqual, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Run mismatch (-want +got):\n%s", diff)
		}
	})
}
