// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar automatic differentiation.
//
// Expressions are built from Vars of a Graph with arithmetic builders. Every
// node can then be evaluated, differentiated in forward mode with respect to
// one chosen input, or differentiated in reverse mode with respect to every
// input at once.
//
// Example:
//
//	import "github.com/born-ml/adgraph/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    x, y := g.Var("x"), g.Var("y")
//	    f := x.Mul(x).Add(y.Mul(y)) // f = x² + y²
//
//	    x.Assign(3)
//	    y.Assign(4)
//	    fmt.Println(f.Value())     // 25
//	    fmt.Println(f.Forward(x))  // df/dx = 6
//
//	    f.Backward()
//	    fmt.Println(y.Grad())      // df/dy = 8
//	}
//
// A Graph holds per-node scratch state written by every pass: serialize passes
// over one Graph.
package autodiff

import (
	"github.com/born-ml/adgraph/internal/autodiff"
	"github.com/born-ml/adgraph/internal/autodiff/ops"
)

// Graph is the arena owning every node of an expression DAG.
type Graph = autodiff.Graph

// Var is a handle to one node of a Graph.
type Var = autodiff.Var

// NodeID is a node's stable index in its Graph.
type NodeID = autodiff.NodeID

// InvalidNodeID is the id of the zero Var.
const InvalidNodeID = autodiff.InvalidNodeID

// Kind identifies a node's operator variant.
type Kind = ops.Kind

// Operator variants.
const (
	OpConstant = ops.Constant
	OpAdd      = ops.Add
	OpSub      = ops.Sub
	OpNeg      = ops.Neg
	OpMul      = ops.Mul
	OpDiv      = ops.Div
	OpPow      = ops.Pow
)

// PowerRuleTolerance is the exponent forward derivative below which Pow's
// forward rule treats the exponent as constant.
const PowerRuleTolerance = ops.PowerRuleTolerance

// Trace records node visits of the passes run over a Graph.
type Trace = autodiff.Trace

// Pass identifies a graph pass in a Trace.
type Pass = autodiff.Pass

// Visit is one recorded node visit.
type Visit = autodiff.Visit

// Passes recorded by a Trace.
const (
	PassValue    = autodiff.PassValue
	PassForward  = autodiff.PassForward
	PassBackward = autodiff.PassBackward
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Add returns a new node a + b.
func Add(a, b Var) Var { return autodiff.Add(a, b) }

// Sub returns a new node a - b.
func Sub(a, b Var) Var { return autodiff.Sub(a, b) }

// Mul returns a new node a * b.
func Mul(a, b Var) Var { return autodiff.Mul(a, b) }

// Div returns a new node a / b.
func Div(a, b Var) Var { return autodiff.Div(a, b) }

// Pow returns a new node base ** exponent.
func Pow(base, exponent Var) Var { return autodiff.Pow(base, exponent) }

// Neg returns a new node -a.
func Neg(a Var) Var { return autodiff.Neg(a) }

// ForwardGradient returns the partials of root w.r.t. each of wrt, one
// forward pass per input.
func ForwardGradient(root Var, wrt ...Var) []float64 {
	return autodiff.ForwardGradient(root, wrt...)
}

// ReverseGradient returns the partials of root w.r.t. each of wrt from a
// single backward pass.
func ReverseGradient(root Var, wrt ...Var) []float64 {
	return autodiff.ReverseGradient(root, wrt...)
}
