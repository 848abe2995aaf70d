package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/scenevars/internal/view"
)

var (
	colorGlobal         = lipgloss.Color("#EDC32C") // global, editable
	colorGlobalDisabled = lipgloss.Color("#9D8018") // global, set in the graph
	colorEdited         = lipgloss.Color("#529952") // set by the tool
	colorViewed         = lipgloss.Color("#685BBA") // current value
	colorDisabled       = lipgloss.Color("#8C8C8C") // local, set in the graph
)

func statusColor(s view.Status) lipgloss.TerminalColor {
	switch s {
	case view.GlobalSetByTool, view.LocalSetByTool:
		return colorEdited
	case view.GlobalLockedElsewhere:
		return colorGlobalDisabled
	case view.GlobalFree:
		return colorGlobal
	case view.LocalLockedElsewhere:
		return colorDisabled
	default:
		return lipgloss.NoColor{}
	}
}

// writeText renders one line per variable followed by its usage sites.
// Colours are only emitted when w is a terminal.
func writeText(w io.Writer, doc Document) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	current := r.NewStyle().Foreground(colorViewed)
	muted := r.NewStyle().Foreground(colorDisabled)

	width := 0
	for _, v := range doc.Variables {
		width = max(width, len(v.Name))
	}

	var sb strings.Builder
	title := fmt.Sprintf("scene %s (%s", doc.Scene, doc.Mode)
	if doc.Start != "" {
		title += " from " + doc.Start
	}
	sb.WriteString(header.Render(title+")") + "\n")
	if len(doc.Variables) == 0 {
		sb.WriteString(muted.Render("no variables") + "\n")
	}

	for _, v := range doc.Variables {
		style := r.NewStyle().Foreground(statusColor(v.status))
		name := style.Render(fmt.Sprintf("%-*s", width, v.Name))
		line := fmt.Sprintf("%s  %s", name, style.Render(v.StatusText))
		if v.Current != nil {
			line += "  = " + current.Render(*v.Current)
		}
		line += "  " + muted.Render("["+strings.Join(v.Values, ", ")+"]")
		sb.WriteString(line + "\n")

		for _, s := range v.Sites {
			sb.WriteString(muted.Render(fmt.Sprintf("    %s %s (%s)", s.Role, s.Node, s.Type)) + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
