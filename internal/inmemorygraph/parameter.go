package inmemorygraph

import (
	"fmt"

	"github.com/specialistvlad/scenevars/internal/nodegraph"
	"github.com/zclconf/go-cty/cty"
)

// Parameter implements nodegraph.Parameter. Values are not animated, so the
// evaluation time is ignored.
type Parameter struct {
	name     string
	value    cty.Value
	children []*Parameter
}

func newParameter(name string, value cty.Value) *Parameter {
	ty := value.Type()
	if value.IsNull() || !value.IsKnown() || !(ty.IsListType() || ty.IsTupleType() || ty.IsSetType()) {
		return &Parameter{name: name, value: value}
	}

	p := &Parameter{name: name, value: cty.NullVal(cty.DynamicPseudoType)}
	i := 0
	for it := value.ElementIterator(); it.Next(); i++ {
		_, elem := it.Element()
		p.children = append(p.children, newParameter(fmt.Sprintf("i%d", i), elem))
	}
	return p
}

// Name implements nodegraph.Parameter.
func (p *Parameter) Name() string { return p.name }

// Children implements nodegraph.Parameter.
func (p *Parameter) Children() []nodegraph.Parameter {
	out := make([]nodegraph.Parameter, len(p.children))
	for i, c := range p.children {
		out[i] = c
	}
	return out
}

// Value implements nodegraph.Parameter.
func (p *Parameter) Value(float64) cty.Value { return p.value }
