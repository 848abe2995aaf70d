package view

import "fmt"

// Status is the display state of a variable.
type Status int

const (
	// GlobalSetByTool: a global variable the tool has set.
	GlobalSetByTool Status = iota
	// GlobalLockedElsewhere: a global variable a writer in the graph sets.
	GlobalLockedElsewhere
	// GlobalFree: a global variable nothing sets.
	GlobalFree
	// LocalSetByTool: a local variable the tool has set.
	LocalSetByTool
	// LocalLockedElsewhere: a local variable a writer in the graph sets.
	LocalLockedElsewhere
	// LocalFree: a local variable nothing sets.
	LocalFree
)

// Statuses lists every status in declaration order.
var Statuses = []Status{
	GlobalSetByTool, GlobalLockedElsewhere, GlobalFree,
	LocalSetByTool, LocalLockedElsewhere, LocalFree,
}

var statusNames = map[Status]string{
	GlobalSetByTool:       "global set by the supertool",
	GlobalLockedElsewhere: "global set locally",
	GlobalFree:            "global",
	LocalSetByTool:        "local set by the supertool",
	LocalLockedElsewhere:  "local set locally",
	LocalFree:             "local not set",
}

// sort order of the variable list: variables set in the graph first, free
// ones last.
var statusRanks = map[Status]int{
	GlobalLockedElsewhere: 0,
	LocalLockedElsewhere:  1,
	LocalSetByTool:        2,
	GlobalSetByTool:       3,
	LocalFree:             4,
	GlobalFree:            5,
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Rank orders statuses for display. Lower ranks come first.
func (s Status) Rank() int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return len(statusRanks)
}

// Key is a stable machine-readable name, used by the structured reports.
func (s Status) Key() string {
	switch s {
	case GlobalSetByTool:
		return "global_set_by_tool"
	case GlobalLockedElsewhere:
		return "global_locked_elsewhere"
	case GlobalFree:
		return "global_free"
	case LocalSetByTool:
		return "local_set_by_tool"
	case LocalLockedElsewhere:
		return "local_locked_elsewhere"
	case LocalFree:
		return "local_free"
	}
	return ""
}

// IsGlobal reports whether the status belongs to a global variable.
func (s Status) IsGlobal() bool {
	return s == GlobalSetByTool || s == GlobalLockedElsewhere || s == GlobalFree
}

// Derive maps the three facts about a variable to its status. Every
// combination has exactly one status; when overridden, locked does not
// matter.
func Derive(global, overridden, locked bool) Status {
	switch {
	case global && overridden:
		return GlobalSetByTool
	case global && !overridden && locked:
		return GlobalLockedElsewhere
	case global && !overridden && !locked:
		return GlobalFree
	case !global && overridden:
		return LocalSetByTool
	case !global && !overridden && locked:
		return LocalLockedElsewhere
	case !global && !overridden && !locked:
		return LocalFree
	}
	panic(fmt.Sprintf("view: no status for global=%t overridden=%t locked=%t", global, overridden, locked))
}
