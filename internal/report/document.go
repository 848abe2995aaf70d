package report

import (
	"github.com/specialistvlad/scenevars/internal/scene"
	"github.com/specialistvlad/scenevars/internal/view"
)

// Document is the structured form of a report.
type Document struct {
	Scene     string     `json:"scene" yaml:"scene" toml:"scene"`
	Mode      string     `json:"mode" yaml:"mode" toml:"mode"`
	Start     string     `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	Variables []Variable `json:"variables" yaml:"variables" toml:"variables"`
}

// Variable is one row of a report.
type Variable struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Scope      string   `json:"scope" yaml:"scope" toml:"scope"`
	Status     string   `json:"status" yaml:"status" toml:"status"`
	StatusText string   `json:"status_text" yaml:"status_text" toml:"status_text"`
	Editable   bool     `json:"editable" yaml:"editable" toml:"editable"`
	Current    *string  `json:"current,omitempty" yaml:"current,omitempty" toml:"current,omitempty"`
	Values     []string `json:"values" yaml:"values" toml:"values"`
	Sites      []Site   `json:"sites" yaml:"sites" toml:"sites"`

	status view.Status
}

// Site is a node touching a variable.
type Site struct {
	Node string `json:"node" yaml:"node" toml:"node"`
	Type string `json:"type" yaml:"type" toml:"type"`
	Role string `json:"role" yaml:"role" toml:"role"`
}

// NewDocument builds a document from views of the given scene, keeping the
// order of views.
func NewDocument(sc *scene.Scene, views []view.View) Document {
	settings := sc.Settings()
	doc := Document{
		Scene:     sc.ID().String(),
		Mode:      string(settings.Mode),
		Variables: make([]Variable, 0, len(views)),
	}
	if !settings.Start.IsZero() {
		doc.Start = settings.Start.String()
	}

	for _, v := range views {
		variable := v.Variable()
		row := Variable{
			Name:       variable.Name(),
			Scope:      variable.Scope().String(),
			Status:     v.Status().Key(),
			StatusText: v.Status().String(),
			Editable:   v.IsEditable(),
			Values:     v.AllValues(),
			status:     v.Status(),
		}
		if cur, ok := v.CurrentValue(); ok {
			row.Current = &cur
		}
		if row.Values == nil {
			row.Values = []string{}
		}
		for _, site := range variable.UsageSites() {
			row.Sites = append(row.Sites, Site{
				Node: site.NodeName(),
				Type: site.NodeType(),
				Role: site.Role.String(),
			})
		}
		doc.Variables = append(doc.Variables, row)
	}
	return doc
}
