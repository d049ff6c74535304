package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

var pointPattern = regexp.MustCompile(`\(\s*([^,()\s]+)\s*,\s*([^,()\s]+)\s*\)`)

// LoadText loads a spec written in the line-oriented text format
func LoadText(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseText(f)
}

// ParseText reads the line-oriented format:
//
//	# comment
//	input: Agua
//	  Fria: triangular (0,0) (10,0) (5,1)
//	output: Potencia
//	  Baja: trapezoidal (0,0) (50,0) (10,1) (30,1)
//	rule: Agua = Fria => Potencia = Baja
//	ini: Agua = 2.5
//
// Value lines belong to the closest preceding input: or output: header.
func ParseText(r io.Reader) (*Spec, error) {
	spec := &Spec{Initial: map[string]float64{}}

	var current *[]VariableSpec // section of the open variable block
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, lineError(lineNum, "expected 'key: value', got %q", line)
		}
		rest = strings.TrimSpace(rest)

		switch strings.TrimSpace(key) {
		case "input":
			if rest == "" {
				return nil, lineError(lineNum, "input without a name")
			}
			spec.Inputs = append(spec.Inputs, VariableSpec{Name: rest})
			current = &spec.Inputs
		case "output":
			if rest == "" {
				return nil, lineError(lineNum, "output without a name")
			}
			spec.Outputs = append(spec.Outputs, VariableSpec{Name: rest})
			current = &spec.Outputs
		case "rule":
			antecedent, consequent, ok := strings.Cut(rest, "=>")
			if !ok {
				return nil, lineError(lineNum, "rule without '=>': %q", rest)
			}
			spec.Rules = append(spec.Rules, RuleSpec{
				If:   strings.TrimSpace(antecedent),
				Then: strings.TrimSpace(consequent),
				Line: lineNum,
			})
		case "ini":
			if err := parseInitial(rest, spec.Initial); err != nil {
				return nil, lineError(lineNum, "%v", err)
			}
		default:
			if current == nil {
				return nil, lineError(lineNum, "value %q outside an input or output block", strings.TrimSpace(key))
			}
			value, err := parseValue(strings.TrimSpace(key), rest)
			if err != nil {
				return nil, lineError(lineNum, "%v", err)
			}
			block := &(*current)[len(*current)-1]
			block.Values = append(block.Values, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return spec, nil
}

// parseValue parses "triangular (0,0) (10,0) (5,1)" for the given label
func parseValue(label, def string) (ValueSpec, error) {
	if label == "" {
		return ValueSpec{}, fmt.Errorf("value without a label")
	}
	shape, pointsText := def, ""
	if i := strings.IndexAny(def, " \t("); i >= 0 {
		shape, pointsText = def[:i], def[i:]
	}
	if shape == "" {
		return ValueSpec{}, fmt.Errorf("value %s without a shape", label)
	}

	if leftover := strings.TrimSpace(pointPattern.ReplaceAllString(pointsText, "")); leftover != "" {
		return ValueSpec{}, fmt.Errorf("value %s: unexpected %q, points are written (x,y)", label, leftover)
	}

	var points [][2]float64
	for _, m := range pointPattern.FindAllStringSubmatch(pointsText, -1) {
		x, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return ValueSpec{}, fmt.Errorf("value %s: bad x %q", label, m[1])
		}
		y, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return ValueSpec{}, fmt.Errorf("value %s: bad y %q", label, m[2])
		}
		points = append(points, [2]float64{x, y})
	}

	return ValueSpec{Label: label, Shape: shape, Points: points}, nil
}

// parseInitial parses "Agua = 2.5, Aire = 17" into dst
func parseInitial(text string, dst map[string]float64) error {
	for _, assignment := range strings.Split(text, ",") {
		name, raw, ok := strings.Cut(assignment, "=")
		name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)
		if !ok || name == "" || raw == "" {
			return fmt.Errorf("expected 'Name = value', got %q", strings.TrimSpace(assignment))
		}
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s: bad number %q", name, raw)
		}
		dst[name] = x
	}
	return nil
}

func lineError(lineNum int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", lineNum, fmt.Sprintf(format, args...), internalerr.ErrInvalidConfig)
}
