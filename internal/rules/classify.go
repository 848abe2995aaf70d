package rules

import (
	"context"
	"regexp"

	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// scriptLookup matches a graph state variable lookup in a script.
var scriptLookup = regexp.MustCompile(`Interface\.GetGraphStateVariable\("([^"]+)"\)`)

// Classify extracts the variable usage of a node. ok is false when the node
// type has no rule. A parameter the rule relies on that is missing, or a
// writer that yields no value, is a nodegraph.IntegrityError.
func (t *Table) Classify(ctx context.Context, n nodegraph.Node, time float64) (*Usage, bool, error) {
	r, ok := t.rules[n.Type()]
	if !ok {
		return nil, false, nil
	}
	logger := ctxlog.FromContext(ctx).With("node", n.Name(), "node_type", n.Type())

	var entries []Entry
	switch r.Kind {
	case KindParam:
		name, err := readName(n, r.NameParam, time)
		if err != nil {
			return nil, false, err
		}
		values, err := readValues(n, r.ValuesParam, time)
		if err != nil {
			return nil, false, err
		}
		entries = appendEntry(entries, name, values)
	case KindDelete:
		name, err := readName(n, r.NameParam, time)
		if err != nil {
			return nil, false, err
		}
		entries = appendEntry(entries, name, []string{DeletedValue})
	case KindScript:
		script, err := readName(n, r.ScriptParam, time)
		if err != nil {
			return nil, false, err
		}
		for _, m := range scriptLookup.FindAllStringSubmatch(script, -1) {
			entries = appendEntry(entries, m[1], []string{AnyValue})
		}
	default:
		panic("rules: unhandled kind " + r.Kind.String())
	}

	if len(entries) == 0 {
		logger.Debug("Node references no variable.")
	}
	if r.Role == RoleWriter {
		// appendEntry keeps entries with no values so they can be rejected here.
		for _, e := range entries {
			if len(e.Values) == 0 {
				return nil, false, nodegraph.NewIntegrityError(n.Name(), r.ValuesParam, "writer sets variable '%s' without a value", e.Name)
			}
		}
	}

	logger.Debug("Node classified.", "role", r.Role, "entries", len(entries))
	return &Usage{Role: r.Role, Entries: entries}, true, nil
}

// appendEntry adds an entry, skipping empty names and merging repeated ones.
func appendEntry(entries []Entry, name string, values []string) []Entry {
	if name == "" {
		return entries
	}
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Values = appendUnique(entries[i].Values, values...)
			return entries
		}
	}
	return append(entries, Entry{Name: name, Values: appendUnique(nil, values...)})
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}

// readName returns the first value of a parameter.
func readName(n nodegraph.Node, path string, time float64) (string, error) {
	values, err := readValues(n, path, time)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

// readValues returns the value of a leaf parameter, or the values of the
// children of a group parameter, as strings.
func readValues(n nodegraph.Node, path string, time float64) ([]string, error) {
	p, ok := n.Parameter(path)
	if !ok {
		return nil, nodegraph.NewIntegrityError(n.Name(), path, "parameter not found")
	}

	children := p.Children()
	if len(children) == 0 {
		s, ok, err := stringify(p.Value(time))
		if err != nil {
			return nil, nodegraph.NewIntegrityError(n.Name(), path, "%v", err)
		}
		if !ok {
			return nil, nil
		}
		return []string{s}, nil
	}

	out := make([]string, 0, len(children))
	for _, c := range children {
		s, ok, err := stringify(c.Value(time))
		if err != nil {
			return nil, nodegraph.NewIntegrityError(n.Name(), path+"."+c.Name(), "%v", err)
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// stringify renders a primitive value as text; numbers and bools use their
// canonical cty rendering. ok is false for a null value.
func stringify(v cty.Value) (string, bool, error) {
	if v.IsNull() {
		return "", false, nil
	}
	if !v.IsKnown() {
		return "", false, errUnknownValue
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false, err
	}
	return sv.AsString(), true, nil
}
