// Package model loads scalar expression graphs from HCL model files.
//
// A model file declares leaves with variable blocks, composite expressions
// with node blocks and, optionally, a dataset of per-row variable values:
//
//	variable "w" {
//	  value     = 0.1
//	  trainable = true
//	}
//	variable "x" {}
//	variable "y" {}
//
//	node "estimate" {
//	  expr = w * x
//	}
//	node "loss" {
//	  expr = pow(y - estimate, 2)
//	}
//
//	dataset = {
//	  x = [0, 1, 2]
//	  y = [1, 3, 2]
//	}
//
// Node expressions may use + - * /, unary minus, parentheses, numeric
// literals, pow(base, exponent) and references to variables or other nodes.
// A reference to a node shares its subgraph.
package model

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/adgraph/internal/autodiff"
)

// fileRoot decodes the top-level structure of a model file.
type fileRoot struct {
	Variables []*variableBlock `hcl:"variable,block"`
	Nodes     []*nodeBlock     `hcl:"node,block"`
	Dataset   hcl.Expression   `hcl:"dataset,optional"`
}

type variableBlock struct {
	Name      string   `hcl:"name,label"`
	Value     *float64 `hcl:"value,optional"`
	Trainable bool     `hcl:"trainable,optional"`
}

type nodeBlock struct {
	Name string         `hcl:"name,label"`
	Expr hcl.Expression `hcl:"expr"`
}

// Model is a compiled model file: a graph plus the names bound to its nodes.
type Model struct {
	graph *autodiff.Graph

	variables     map[string]autodiff.Var
	variableNames []string
	trainable     []autodiff.Var

	nodes     map[string]autodiff.Var
	nodeNames []string

	columns     map[string][]float64
	columnNames []string
	rows        int
}

// Load reads and compiles the model file at path.
func Load(path string) (*Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}
	return Parse(src, path)
}

// Parse compiles model source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse model file %s", filename)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode model file %s", filename)
	}

	m, diags := compile(&root)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to compile model file %s", filename)
	}
	klog.V(2).Infof("model: loaded %s: %d variables, %d nodes, %d graph nodes, %d dataset rows",
		filename, len(m.variableNames), len(m.nodeNames), m.graph.NumNodes(), m.rows)
	return m, nil
}

// Graph returns the graph owning every node of the model.
func (m *Model) Graph() *autodiff.Graph {
	return m.graph
}

// Node returns the node declared by the node block name.
func (m *Model) Node(name string) (autodiff.Var, error) {
	if v, ok := m.nodes[name]; ok {
		return v, nil
	}
	if _, ok := m.variables[name]; ok {
		return autodiff.Var{}, errors.Errorf("%q is a variable, not a node", name)
	}
	return autodiff.Var{}, errors.Errorf("unknown node %q", name)
}

// Variable returns the leaf declared by the variable block name.
func (m *Model) Variable(name string) (autodiff.Var, error) {
	if v, ok := m.variables[name]; ok {
		return v, nil
	}
	return autodiff.Var{}, errors.Errorf("unknown variable %q", name)
}

// Lookup returns the variable or node called name.
func (m *Model) Lookup(name string) (autodiff.Var, bool) {
	if v, ok := m.variables[name]; ok {
		return v, true
	}
	v, ok := m.nodes[name]
	return v, ok
}

// VariableNames returns variable names in declaration order.
func (m *Model) VariableNames() []string {
	return m.variableNames
}

// NodeNames returns node names in declaration order.
func (m *Model) NodeNames() []string {
	return m.nodeNames
}

// Trainable returns the variables marked trainable, in declaration order.
func (m *Model) Trainable() []autodiff.Var {
	return m.trainable
}

// Columns returns the dataset column names, sorted.
func (m *Model) Columns() []string {
	return m.columnNames
}

// Column returns the values of one dataset column.
func (m *Model) Column(name string) ([]float64, bool) {
	col, ok := m.columns[name]
	return col, ok
}

// Rows returns the number of dataset rows, 0 without a dataset.
func (m *Model) Rows() int {
	return m.rows
}

// Bind assigns every dataset column's value at row to its variable.
func (m *Model) Bind(row int) error {
	if row < 0 || row >= m.rows {
		return errors.Errorf("dataset row %d out of range [0, %d)", row, m.rows)
	}
	for _, name := range m.columnNames {
		m.variables[name].Assign(m.columns[name][row])
	}
	return nil
}
