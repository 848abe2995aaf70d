package view

import (
	"slices"

	"github.com/specialistvlad/scenevars/internal/scene"
)

// Override is the value the editing tool sets for a variable.
type Override struct {
	Value string
}

// View is a read-only projection of a Variable and its override.
type View struct {
	variable *scene.Variable
	override *Override
}

// New returns the view of v with the given override, which may be nil.
func New(v *scene.Variable, o *Override) View {
	if o != nil {
		copied := *o
		o = &copied
	}
	return View{variable: v, override: o}
}

// Variable returns the underlying variable.
func (v View) Variable() *scene.Variable { return v.variable }

// Name returns the variable name.
func (v View) Name() string { return v.variable.Name() }

// Override returns the override and whether one is set.
func (v View) Override() (Override, bool) {
	if v.override == nil {
		return Override{}, false
	}
	return *v.override, true
}

// IsOverridden reports whether the tool has set the variable.
func (v View) IsOverridden() bool { return v.override != nil }

// IsLocked reports whether a writer in the graph sets the variable.
func (v View) IsLocked() bool {
	_, ok := v.variable.Locked()
	return ok
}

// Status derives the display status.
func (v View) Status() Status {
	return Derive(v.variable.IsGlobal(), v.IsOverridden(), v.IsLocked())
}

// IsEditable reports whether the tool may change the value. A variable set by
// the graph can only be changed once the tool has taken it over.
func (v View) IsEditable() bool {
	return v.IsOverridden() || !v.IsLocked()
}

// CurrentValue returns the override, else the locked value. ok is false when
// neither exists.
func (v View) CurrentValue() (value string, ok bool) {
	if v.override != nil {
		return v.override.Value, true
	}
	return v.variable.Locked()
}

// AllValues returns the variable's candidate values unchanged.
func (v View) AllValues() []string {
	return v.variable.Values()
}

// Views builds one view per variable of the scene, in scene order, taking
// overrides by variable name. Overrides for names the scene does not have are
// ignored.
func Views(s *scene.Scene, overrides map[string]Override) []View {
	vars := s.Variables()
	out := make([]View, 0, len(vars))
	for _, v := range vars {
		var o *Override
		if ov, ok := overrides[v.Name()]; ok {
			o = &ov
		}
		out = append(out, New(v, o))
	}
	return out
}

// SortByStatus orders views by status rank, keeping scene order within a
// status.
func SortByStatus(views []View) {
	slices.SortStableFunc(views, func(a, b View) int {
		return a.Status().Rank() - b.Status().Rank()
	})
}
