package scene

// Scope tells whether a variable is declared at the root of the graph.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeGlobal
)

func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// Variable aggregates every usage of one variable name in a scene. A
// Variable is created empty by the registry and filled once when the build
// finalizes; it is read-only afterwards.
type Variable struct {
	name   string
	scope  Scope
	sites  []*UsageSite
	values []string
	locked *string
}

func newVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Scope returns the variable scope.
func (v *Variable) Scope() Scope { return v.scope }

// IsGlobal reports whether the variable is declared at the graph root.
func (v *Variable) IsGlobal() bool { return v.scope == ScopeGlobal }

// UsageSites returns the sites touching the variable, in collection order.
func (v *Variable) UsageSites() []*UsageSite {
	return append([]*UsageSite(nil), v.sites...)
}

// Values returns every candidate value in first-seen order, without
// duplicates.
func (v *Variable) Values() []string {
	return append([]string(nil), v.values...)
}

// Locked returns the value set by the last writer in collection order. ok is
// false when no writer sets the variable.
func (v *Variable) Locked() (value string, ok bool) {
	if v.locked == nil {
		return "", false
	}
	return *v.locked, true
}

// finalize computes the derived fields from the collected sites.
func (v *Variable) finalize(sites []*UsageSite, globals map[string]struct{}) {
	v.sites = v.sites[:0]
	v.values = v.values[:0]
	v.locked = nil
	seen := make(map[string]struct{})

	for _, site := range sites {
		values, ok := site.Values(v.name)
		if !ok {
			continue
		}
		v.sites = append(v.sites, site)
		for _, val := range values {
			if _, dup := seen[val]; !dup {
				seen[val] = struct{}{}
				v.values = append(v.values, val)
			}
		}
		if site.IsWriter() && len(values) > 0 {
			locked := values[0]
			v.locked = &locked
		}
	}

	v.scope = ScopeLocal
	if _, ok := globals[v.name]; ok {
		v.scope = ScopeGlobal
	}
}
