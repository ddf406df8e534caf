package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/adgraph/internal/autodiff"
)

// binaryOps maps HCL arithmetic operators to graph builders.
var binaryOps = map[*hclsyntax.Operation]func(a, b autodiff.Var) autodiff.Var{
	hclsyntax.OpAdd:      autodiff.Add,
	hclsyntax.OpSubtract: autodiff.Sub,
	hclsyntax.OpMultiply: autodiff.Mul,
	hclsyntax.OpDivide:   autodiff.Div,
}

// functions maps the callable names of node expressions to binary builders.
var functions = map[string]func(a, b autodiff.Var) autodiff.Var{
	"pow": autodiff.Pow,
}

type compileState int

const (
	unvisited compileState = iota
	compiling
	compiled
)

// compiler resolves node blocks to graph nodes, depth first, so a node may
// reference nodes declared after it.
type compiler struct {
	m      *Model
	blocks map[string]*nodeBlock
	state  map[string]compileState
}

func compile(root *fileRoot) (*Model, hcl.Diagnostics) {
	m := &Model{
		graph:     autodiff.NewGraph(),
		variables: make(map[string]autodiff.Var),
		nodes:     make(map[string]autodiff.Var),
		columns:   make(map[string][]float64),
	}
	var diags hcl.Diagnostics

	for _, vb := range root.Variables {
		if _, dup := m.variables[vb.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate variable",
				Detail:   fmt.Sprintf("Variable %q is declared more than once.", vb.Name),
			})
			continue
		}
		v := m.graph.Var(vb.Name)
		if vb.Value != nil {
			v.Assign(*vb.Value)
		}
		m.variables[vb.Name] = v
		m.variableNames = append(m.variableNames, vb.Name)
		if vb.Trainable {
			m.trainable = append(m.trainable, v)
		}
	}

	c := &compiler{
		m:      m,
		blocks: make(map[string]*nodeBlock),
		state:  make(map[string]compileState),
	}
	for _, nb := range root.Nodes {
		_, isVariable := m.variables[nb.Name]
		_, isNode := c.blocks[nb.Name]
		if isVariable || isNode {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate name",
				Detail:   fmt.Sprintf("Node %q reuses the name of another variable or node.", nb.Name),
				Subject:  nb.Expr.Range().Ptr(),
			})
			continue
		}
		c.blocks[nb.Name] = nb
		m.nodeNames = append(m.nodeNames, nb.Name)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	for _, name := range m.nodeNames {
		_, nodeDiags := c.resolve(name, c.blocks[name].Expr.Range())
		diags = append(diags, nodeDiags...)
	}
	diags = append(diags, m.loadDataset(root.Dataset)...)
	if diags.HasErrors() {
		return nil, diags
	}
	return m, diags
}

// resolve returns the node bound to name, compiling its block on first use.
// An invalid Var means compilation failed; the failure is reported once.
func (c *compiler) resolve(name string, ref hcl.Range) (autodiff.Var, hcl.Diagnostics) {
	if v, ok := c.m.variables[name]; ok {
		return v, nil
	}
	block, ok := c.blocks[name]
	if !ok {
		return autodiff.Var{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown reference",
			Detail:   fmt.Sprintf("There is no variable or node named %q.", name),
			Subject:  ref.Ptr(),
		}}
	}

	switch c.state[name] {
	case compiled:
		return c.m.nodes[name], nil
	case compiling:
		return autodiff.Var{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Cyclic node reference",
			Detail:   fmt.Sprintf("Node %q depends on itself.", name),
			Subject:  ref.Ptr(),
		}}
	}

	c.state[name] = compiling
	v, diags := c.expr(block.Expr)
	c.state[name] = compiled
	if v.IsValid() {
		c.m.nodes[name] = v
	}
	return v, diags
}

// expr compiles one expression into builder calls.
func (c *compiler) expr(expr hcl.Expression) (autodiff.Var, hcl.Diagnostics) {
	syntaxExpr, ok := expr.(hclsyntax.Expression)
	if !ok {
		return autodiff.Var{}, unsupported(expr, "Node expressions must use HCL native syntax.")
	}

	switch e := syntaxExpr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.IsNull() || e.Val.Type() != cty.Number {
			return autodiff.Var{}, unsupported(e, "Only numeric literals are allowed.")
		}
		f, _ := e.Val.AsBigFloat().Float64()
		return c.m.graph.Const(f), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return autodiff.Var{}, unsupported(e, "References must be bare variable or node names.")
		}
		return c.resolve(e.Traversal.RootName(), e.SrcRange)

	case *hclsyntax.ParenthesesExpr:
		return c.expr(e.Expression)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return autodiff.Var{}, unsupported(e, "Only unary minus is supported.")
		}
		a, diags := c.expr(e.Val)
		if !a.IsValid() {
			return autodiff.Var{}, diags
		}
		return a.Neg(), diags

	case *hclsyntax.BinaryOpExpr:
		build, ok := binaryOps[e.Op]
		if !ok {
			return autodiff.Var{}, unsupported(e, "Only +, -, * and / are supported.")
		}
		return c.binary(build, e.LHS, e.RHS)

	case *hclsyntax.FunctionCallExpr:
		build, ok := functions[e.Name]
		if !ok {
			return autodiff.Var{}, unsupported(e, fmt.Sprintf("Unknown function %q; only pow is available.", e.Name))
		}
		if len(e.Args) != 2 || e.ExpandFinal {
			return autodiff.Var{}, unsupported(e, fmt.Sprintf("Function %q takes exactly two arguments.", e.Name))
		}
		return c.binary(build, e.Args[0], e.Args[1])
	}
	return autodiff.Var{}, unsupported(expr, "Only arithmetic on numbers, variables and nodes is supported.")
}

func (c *compiler) binary(build func(a, b autodiff.Var) autodiff.Var, lhs, rhs hcl.Expression) (autodiff.Var, hcl.Diagnostics) {
	a, diags := c.expr(lhs)
	b, rhsDiags := c.expr(rhs)
	diags = append(diags, rhsDiags...)
	if !a.IsValid() || !b.IsValid() {
		return autodiff.Var{}, diags
	}
	return build(a, b), diags
}

func unsupported(expr hcl.Expression, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported expression",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}

// loadDataset decodes the dataset attribute: an object of equal-length
// numeric lists keyed by variable name.
func (m *Model) loadDataset(expr hcl.Expression) hcl.Diagnostics {
	if expr == nil {
		return nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return diags
	}
	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid dataset",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return invalid("The dataset must be an object mapping variable names to lists of numbers.")
	}

	for it := val.ElementIterator(); it.Next(); {
		key, col := it.Element()
		name := key.AsString()
		if _, ok := m.variables[name]; !ok {
			return invalid(fmt.Sprintf("Column %q does not name a declared variable.", name))
		}

		list, err := convert.Convert(col, cty.List(cty.Number))
		if err != nil {
			return invalid(fmt.Sprintf("Column %q must be a list of numbers: %s.", name, err))
		}
		var values []float64
		if err := gocty.FromCtyValue(list, &values); err != nil {
			return invalid(fmt.Sprintf("Column %q must be a list of numbers: %s.", name, err))
		}

		if len(m.columnNames) > 0 && len(values) != m.rows {
			return invalid(fmt.Sprintf("Column %q has %d rows, want %d.", name, len(values), m.rows))
		}
		m.rows = len(values)
		m.columns[name] = values
		m.columnNames = append(m.columnNames, name)
	}
	return diags
}
