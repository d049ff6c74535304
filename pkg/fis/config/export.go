package config

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteText renders spec in the line-oriented text format accepted by
// ParseText.
func WriteText(w io.Writer, spec *Spec) error {
	bw := bufio.NewWriter(w)
	writeVariables(bw, "input", spec.Inputs)
	writeVariables(bw, "output", spec.Outputs)

	if len(spec.Rules) > 0 {
		for _, r := range spec.Rules {
			fmt.Fprintf(bw, "rule: %s => %s\n", r.If, r.Then)
		}
		bw.WriteString("\n")
	}

	if len(spec.Initial) > 0 {
		names := make([]string, 0, len(spec.Initial))
		for name := range spec.Initial {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + " = " + formatNumber(spec.Initial[name])
		}
		fmt.Fprintf(bw, "ini: %s\n", strings.Join(parts, ", "))
	}
	return bw.Flush()
}

func writeVariables(w *bufio.Writer, header string, vars []VariableSpec) {
	for _, v := range vars {
		fmt.Fprintf(w, "%s: %s\n", header, v.Name)
		for _, val := range v.Values {
			fmt.Fprintf(w, "  %s: %s", val.Label, val.Shape)
			for _, p := range val.Points {
				fmt.Fprintf(w, " (%s,%s)", formatNumber(p[0]), formatNumber(p[1]))
			}
			w.WriteString("\n")
		}
		w.WriteString("\n")
	}
}

// WriteYAML renders spec in the YAML format accepted by LoadSpecYAML
func WriteYAML(w io.Writer, spec *Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}
	return enc.Close()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
