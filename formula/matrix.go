package formula

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Matrix describes the build variants of a module. Require holds host
// settings (os, arch), Options holds recipe options and DefaultOptions the
// value chosen when the user does not pick one.
type Matrix struct {
	Require        map[string][]string
	Options        map[string][]string
	DefaultOptions map[string][]string
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically, and combinations are built layer by layer.
// Require fields are joined with "-", then combined with options using "|".
func (m *Matrix) Combinations() []string {
	cartesian := func(kvs map[string][]string) []string {
		if len(kvs) == 0 {
			return nil
		}

		keys := make([]string, 0, len(kvs))
		for k := range kvs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make([]string, len(kvs[keys[0]]))
		copy(result, kvs[keys[0]])

		for i := 1; i < len(keys); i++ {
			values := kvs[keys[i]]
			newResult := make([]string, 0, len(result)*len(values))
			for _, prev := range result {
				for _, v := range values {
					newResult = append(newResult, prev+"-"+v)
				}
			}
			result = newResult
		}
		return result
	}

	requireCombos := cartesian(m.Require)
	optionsCombos := cartesian(m.Options)

	if len(requireCombos) == 0 {
		return optionsCombos
	}
	if len(optionsCombos) == 0 {
		return requireCombos
	}

	result := make([]string, 0, len(requireCombos)*len(optionsCombos))
	for _, req := range requireCombos {
		for _, opt := range optionsCombos {
			result = append(result, req+"|"+opt)
		}
	}

	return result
}

// CombinationCount returns the total number of cartesian product combinations.
func (m *Matrix) CombinationCount() int {
	countPart := func(kvs map[string][]string) int {
		if len(kvs) == 0 {
			return 0
		}
		count := 1
		for _, v := range kvs {
			count *= len(v)
		}
		return count
	}

	requireCount := countPart(m.Require)
	optionsCount := countPart(m.Options)

	if requireCount == 0 {
		return optionsCount
	}
	if optionsCount == 0 {
		return requireCount
	}
	return requireCount * optionsCount
}

// String returns the combinations joined by ",". For a matrix produced by
// Select it is the single key used for build and cache directories.
func (m Matrix) String() string {
	return strings.Join(m.Combinations(), ",")
}

// Select narrows the option axis to one value per option: the value from
// picks when present, otherwise the default. picks accepts raw matrix values
// ("sharedOFF") and, for bool options, true/false/on/off.
func (m Matrix) Select(require map[string]string, picks map[string]string) (Matrix, error) {
	out := Matrix{
		Require:        make(map[string][]string, len(require)),
		Options:        make(map[string][]string, len(m.Options)),
		DefaultOptions: maps.Clone(m.DefaultOptions),
	}
	for k, v := range require {
		out.Require[k] = []string{v}
	}
	for name := range picks {
		if _, ok := m.Options[name]; !ok {
			return Matrix{}, fmt.Errorf("unknown option %q", name)
		}
	}
	for name, values := range m.Options {
		val, ok := picks[name]
		if !ok {
			def := m.DefaultOptions[name]
			if len(def) == 0 {
				return Matrix{}, fmt.Errorf("option %q has no default and no value", name)
			}
			out.Options[name] = []string{def[0]}
			continue
		}
		resolved, err := resolveOptionValue(name, val, values)
		if err != nil {
			return Matrix{}, err
		}
		out.Options[name] = []string{resolved}
	}
	return out, nil
}

// Option returns the single selected value of option name.
func (m Matrix) Option(name string) (string, bool) {
	if v := m.Options[name]; len(v) == 1 {
		return v[0], true
	}
	if v := m.DefaultOptions[name]; len(v) > 0 {
		return v[0], true
	}
	return "", false
}

func (m *Matrix) addOption(name, def string, values []string) {
	if m.Options == nil {
		m.Options = make(map[string][]string)
	}
	if m.DefaultOptions == nil {
		m.DefaultOptions = make(map[string][]string)
	}
	m.Options[name] = values
	m.DefaultOptions[name] = []string{def}
}

func resolveOptionValue(name, val string, allowed []string) (string, error) {
	if slices.Contains(allowed, val) {
		return val, nil
	}
	if slices.Contains(allowed, name+"ON") {
		switch strings.ToLower(val) {
		case "true", "on", "1", "yes":
			return name + "ON", nil
		case "false", "off", "0", "no":
			return name + "OFF", nil
		}
	}
	return "", fmt.Errorf("invalid value %q for option %q (allowed: %s)", val, name, strings.Join(allowed, ", "))
}

func boolValue(name string, v bool) string {
	if v {
		return name + "ON"
	}
	return name + "OFF"
}
