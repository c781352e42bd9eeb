package matrix

import (
	"sort"
	"strings"

	"conveyor/pkg/api"
)

// Combination is one resolved parameter set of a build matrix: axis name to value.
type Combination map[string]string

// Key returns a canonical identity for the combination, used to collapse
// duplicates by full parameter-set equality.
func (c Combination) Key() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c[k])
	}
	return b.String()
}

// Expand computes the execution units of a matrix: the Cartesian product over
// all declared axes, unioned with the explicitly included extra combinations.
// Duplicates are collapsed by full parameter-set equality. Expand is a pure
// function: the same spec always yields the same set.
//
// A nil spec, or one with zero axes and no extras, expands to exactly one
// empty combination: a non-matrix job is a single unit. An axis declared with
// an empty value list empties the whole cross-product, so only the extras (if
// any) remain.
func Expand(spec *api.MatrixSpec) []Combination {
	if spec == nil || (len(spec.Axes) == 0 && len(spec.Include) == 0) {
		return []Combination{{}}
	}

	var combos []Combination
	if len(spec.Axes) > 0 {
		combos = product(spec.Axes)
	}

	seen := make(map[string]bool, len(combos))
	for _, c := range combos {
		seen[c.Key()] = true
	}
	for _, inc := range spec.Include {
		c := Combination{}
		for k, v := range inc {
			c[k] = v
		}
		if !seen[c.Key()] {
			seen[c.Key()] = true
			combos = append(combos, c)
		}
	}
	return combos
}

// product computes the cross-product of the axes. Axis names are iterated in
// sorted order so the resulting slice ordering is deterministic; the set
// itself does not depend on axis order.
func product(axes map[string][]string) []Combination {
	names := make([]string, 0, len(axes))
	for n := range axes {
		names = append(names, n)
	}
	sort.Strings(names)

	combos := []Combination{{}}
	for _, name := range names {
		values := axes[name]
		next := make([]Combination, 0, len(combos)*len(values))
		for _, c := range combos {
			for _, v := range values {
				nc := Combination{}
				for k, cv := range c {
					nc[k] = cv
				}
				nc[name] = v
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}
