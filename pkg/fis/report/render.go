package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/fis/pkg/fis/store"
)

// Format selects an output rendering
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or html)", s)
}

// Render writes runs in the given format
func Render(w io.Writer, format Format, runs ...store.Run) error {
	switch format {
	case FormatJSON:
		return RenderJSON(w, runs...)
	case FormatHTML:
		return RenderHTML(w, runs...)
	default:
		return RenderText(w, runs...)
	}
}

// RenderText writes a plain-text summary of each run
func RenderText(w io.Writer, runs ...store.Run) error {
	for i, r := range runs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		title := "Run " + r.ID
		if r.Source != "" {
			title += " (" + r.Source + ")"
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}

		inputs := make([][]string, 0, len(r.Inputs))
		for _, name := range sortedKeys(r.Inputs) {
			inputs = append(inputs, []string{"  " + name, "= " + formatFloat(r.Inputs[name])})
		}
		firings := make([][]string, 0, len(r.Firings))
		for _, f := range r.Firings {
			firings = append(firings, []string{
				"  " + strconv.Itoa(f.Index+1) + ".",
				f.Rule + " => " + f.Output,
				formatFloat(f.Degree),
				describe(f.Function),
			})
		}
		outputs := make([][]string, 0, len(r.Outputs))
		for _, o := range r.Outputs {
			outputs = append(outputs, []string{"  " + o.Variable + " = " + o.Label, describe(o.Function)})
		}

		for _, section := range []struct {
			name string
			rows [][]string
		}{
			{"Inputs:", inputs},
			{"Rules:", firings},
			{"Outputs:", outputs},
		} {
			if _, err := fmt.Fprintln(w, section.name); err != nil {
				return err
			}
			if err := WriteTable(w, nil, section.rows); err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonRun struct {
	ID        string             `json:"id"`
	Source    string             `json:"source,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Inputs    map[string]float64 `json:"inputs"`
	Firings   []jsonFiring       `json:"firings"`
	Outputs   []jsonOutput       `json:"outputs"`
}

type jsonFiring struct {
	Rule     string                 `json:"rule"`
	Output   string                 `json:"output"`
	Degree   float64                `json:"degree"`
	Function store.FunctionSnapshot `json:"function"`
}

type jsonOutput struct {
	Variable string                 `json:"variable"`
	Label    string                 `json:"label"`
	Function store.FunctionSnapshot `json:"function"`
}

// RenderJSON writes the runs as an indented JSON array
func RenderJSON(w io.Writer, runs ...store.Run) error {
	out := make([]jsonRun, 0, len(runs))
	for _, r := range runs {
		jr := jsonRun{
			ID:        r.ID,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
			Inputs:    r.Inputs,
			Firings:   make([]jsonFiring, 0, len(r.Firings)),
			Outputs:   make([]jsonOutput, 0, len(r.Outputs)),
		}
		for _, f := range r.Firings {
			jr.Firings = append(jr.Firings, jsonFiring{Rule: f.Rule, Output: f.Output, Degree: f.Degree, Function: f.Function})
		}
		for _, o := range r.Outputs {
			jr.Outputs = append(jr.Outputs, jsonOutput{Variable: o.Variable, Label: o.Label, Function: o.Function})
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func describe(s store.FunctionSnapshot) string {
	if s.Kind == "" {
		return ""
	}
	fn, err := s.Function()
	if err != nil {
		return fmt.Sprintf("invalid %s snapshot", s.Kind)
	}
	return fn.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
