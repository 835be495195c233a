package apispec

import (
	"reflect"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Diff reports the structural differences between two documents. Paths are
// dotted key paths from the document root; list order is ignored.
type Diff struct {
	HasChanges bool     `json:"has_changes"`
	Added      []string `json:"added"`
	Removed    []string `json:"removed"`
	Changed    []string `json:"changed"`
	Unified    string   `json:"unified,omitempty"`
}

// Compare loads both documents with the same format and diffs them.
func Compare(contentA, contentB, format string) (*Diff, error) {
	a, err := Load(contentA, format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse spec content for comparison")
	}
	b, err := Load(contentB, format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse spec content for comparison")
	}

	d := &Diff{Added: []string{}, Removed: []string{}, Changed: []string{}}
	walk(d, "", a, b)
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	d.HasChanges = len(d.Added)+len(d.Removed)+len(d.Changed) > 0

	if d.HasChanges {
		left, err := normalize(a)
		if err != nil {
			return nil, err
		}
		right, err := normalize(b)
		if err != nil {
			return nil, err
		}
		d.Unified = udiff.Unified("a", "b", left, right)
	}
	return d, nil
}

func walk(d *Diff, prefix string, a, b any) {
	ma, aIsMap := a.(map[string]any)
	mb, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok {
				d.Removed = append(d.Removed, join(prefix, k))
				continue
			}
			walk(d, join(prefix, k), va, vb)
		}
		for k := range mb {
			if _, ok := ma[k]; !ok {
				d.Added = append(d.Added, join(prefix, k))
			}
		}
		return
	}

	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	if aIsList && bIsList {
		if !sameElements(la, lb) {
			d.Changed = append(d.Changed, rootOr(prefix))
		}
		return
	}

	if !scalarEqual(a, b) {
		d.Changed = append(d.Changed, rootOr(prefix))
	}
}

// sameElements compares two lists as multisets.
func sameElements(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for i, y := range b {
			if !used[i] && deepEqual(x, y) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func deepEqual(a, b any) bool {
	var d Diff
	walk(&d, "", a, b)
	return len(d.Added)+len(d.Removed)+len(d.Changed) == 0
}

// scalarEqual treats integer and float encodings of the same number as equal
// since JSON decodes every number as float64.
func scalarEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func rootOr(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func normalize(v any) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "failed to normalize document")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to normalize document")
	}
	return sb.String(), nil
}
