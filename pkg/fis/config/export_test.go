package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignoreLine = cmpopts.IgnoreFields(RuleSpec{}, "Line")

func TestWriteTextRoundTrip(t *testing.T) {
	spec, err := ParseText(strings.NewReader(waterText))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	spec.Initial["Zona"] = 0.125

	var buf bytes.Buffer
	if err := WriteText(&buf, spec); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "ini: Agua = 2.5, Zona = 0.125\n") {
		t.Errorf("Initial values not sorted on one line:\n%s", buf.String())
	}

	back, err := ParseText(&buf)
	if err != nil {
		t.Fatalf("ParseText(WriteText): %v", err)
	}
	if diff := cmp.Diff(spec, back, ignoreLine); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	spec, err := ParseText(strings.NewReader(waterText))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteYAML(&buf, spec); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if strings.Contains(buf.String(), "line") {
		t.Errorf("Source line numbers leaked into YAML:\n%s", buf.String())
	}

	path := writeFile(t, t.TempDir(), "water.yaml", buf.String())
	back, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if diff := cmp.Diff(spec, back, ignoreLine); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := Build(back); err != nil {
		t.Errorf("Build after round trip: %v", err)
	}
}

func TestIsYAML(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true,
		"a.YML":  true,
		"a.fis":  false,
		"a":      false,
	} {
		if got := IsYAML(path); got != want {
			t.Errorf("IsYAML(%q) = %v, want %v", path, got, want)
		}
	}
}
