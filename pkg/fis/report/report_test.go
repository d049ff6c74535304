package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/cognicore/fis/pkg/fis/inference"
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/store"
	"github.com/cognicore/fis/pkg/fis/variable"
)

func fixture(t *testing.T) (*variable.Collection, []*variable.Definition) {
	t.Helper()
	fria, err := membership.NewTriangular(membership.Point{X: 0}, membership.Point{X: 10}, membership.Point{X: 5, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	agua, err := variable.NewDefinition("Agua", variable.NewValue("Fria", fria))
	if err != nil {
		t.Fatal(err)
	}
	vars, err := variable.NewCollection(agua)
	if err != nil {
		t.Fatal(err)
	}
	vars.AddInput("Agua", 2.5)

	alta, err := membership.NewTriangular(membership.Point{X: 10}, membership.Point{X: 30}, membership.Point{X: 20, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	potencia, err := variable.NewDefinition("Potencia", variable.NewValue("Alta", alta.Truncate(0.5)))
	if err != nil {
		t.Fatal(err)
	}
	return vars, []*variable.Definition{potencia}
}

func sampleResult() inference.Result {
	return inference.Result{Firings: []inference.Firing{
		{
			Index: 0, Rule: "Agua = Fria", Output: "Potencia = Alta", Degree: 0.5,
			After: membership.Trapezoidal{
				A: membership.Point{X: 10}, B: membership.Point{X: 30},
				C: membership.Point{X: 15, Y: 0.5}, D: membership.Point{X: 25, Y: 0.5},
			},
		},
	}}
}

func TestBuilderBuild(t *testing.T) {
	vars, outputs := fixture(t)
	builder := New()
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.FixedZone("X", 3600))
	builder.now = func() time.Time { return fixed }

	run := builder.Build("water.fis", vars, sampleResult(), outputs)

	if run.Source != "water.fis" {
		t.Errorf("Unexpected source %q", run.Source)
	}
	if !run.CreatedAt.Equal(fixed) || run.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt should be the build time in UTC, got %v", run.CreatedAt)
	}
	if run.Inputs["Agua"] != 2.5 {
		t.Errorf("Unexpected inputs %v", run.Inputs)
	}
	if len(run.Firings) != 1 || run.Firings[0].Degree != 0.5 {
		t.Fatalf("Unexpected firings %+v", run.Firings)
	}
	if fn := run.Firings[0].Function; fn.Kind != membership.KindTrapezoidal || fn.Points[2] != (membership.Point{X: 15, Y: 0.5}) {
		t.Errorf("Firing should record the truncated shape, got %+v", fn)
	}
	if len(run.Outputs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(run.Outputs))
	}
	out := run.Outputs[0]
	if out.Variable != "Potencia" || out.Label != "Alta" || out.Function.Kind != membership.KindTrapezoidal {
		t.Errorf("Unexpected output %+v", out)
	}
}

func TestBuilderULIDUniqueness(t *testing.T) {
	vars, outputs := fixture(t)
	builder := New()

	// Generate multiple runs rapidly
	ids := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		run := builder.Build("water.fis", vars, sampleResult(), outputs)
		if ids[run.ID] {
			t.Errorf("Duplicate ULID generated: %s", run.ID)
		}
		if run.ID <= prev {
			t.Errorf("ULIDs should increase: %s after %s", run.ID, prev)
		}
		ids[run.ID] = true
		prev = run.ID
	}

	if len(ids) != 1000 {
		t.Errorf("Expected 1000 unique IDs, got %d", len(ids))
	}
}

func TestBuilderEmptyResult(t *testing.T) {
	vars, _ := fixture(t)
	run := New().Build("", vars, inference.Result{}, nil)

	if len(run.Firings) != 0 || len(run.Outputs) != 0 {
		t.Errorf("Empty result should produce no firings or outputs: %+v", run)
	}
}

func sampleRun(t *testing.T) store.Run {
	vars, outputs := fixture(t)
	return New().Build("water.fis", vars, sampleResult(), outputs)
}

func TestRenderText(t *testing.T) {
	run := sampleRun(t)
	var buf bytes.Buffer
	if err := RenderText(&buf, run); err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Run " + run.ID + " (water.fis)",
		"Agua",
		"= 2.5",
		"1.  Agua = Fria => Potencia = Alta",
		"Potencia = Alta",
		"trapezoidal(a=(10, 0) b=(30, 0) c=(15, 0.5) d=(25, 0.5))",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	run := sampleRun(t)
	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, run, run); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded []struct {
		ID      string `json:"id"`
		Firings []struct {
			Degree   float64 `json:"degree"`
			Function struct {
				Kind string `json:"kind"`
			} `json:"function"`
		} `json:"firings"`
		Outputs []struct {
			Function struct {
				Kind   string `json:"kind"`
				Points []struct {
					X float64 `json:"x"`
					Y float64 `json:"y"`
				} `json:"points"`
			} `json:"function"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0].ID != run.ID {
		t.Fatalf("Unexpected runs: %+v", decoded)
	}
	if decoded[0].Firings[0].Degree != 0.5 {
		t.Errorf("Unexpected degree %v", decoded[0].Firings[0].Degree)
	}
	if decoded[0].Firings[0].Function.Kind != "trapezoidal" {
		t.Errorf("Firing should carry its truncated function, got %+v", decoded[0].Firings[0].Function)
	}
	fn := decoded[0].Outputs[0].Function
	if fn.Kind != "trapezoidal" || len(fn.Points) != 4 || fn.Points[2].X != 15 {
		t.Errorf("Unexpected function %+v", fn)
	}
}

func TestRenderHTML(t *testing.T) {
	run := sampleRun(t)
	run.Firings[0].Rule = "Agua = Fria <script>"

	var buf bytes.Buffer
	if err := Render(&buf, FormatHTML, run); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("Expected doctype, got %q", out[:20])
	}
	if strings.Contains(out, "<script>") {
		t.Error("Rule text must be escaped")
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Output does not parse: %v", err)
	}
	var cells int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			cells++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	// inputs 2 + rules 5 + outputs 3
	if cells != 10 {
		t.Errorf("Expected 10 cells, got %d", cells)
	}
	if !strings.Contains(out, "<td>trapezoidal(a=(10, 0) b=(30, 0) c=(15, 0.5) d=(25, 0.5))</td>") {
		t.Error("Rule row should show the truncated function")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "html"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for xml")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"ID", "SOURCE"}, [][]string{
		{"a", "water.fis"},
		{"abcdef", "tipping.yaml"},
	})
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	want := "ID      SOURCE\n" +
		"a       water.fis\n" +
		"abcdef  tipping.yaml\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTable =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, nil, nil); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}
