// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model loads expression graphs from HCL model files.
//
// Example:
//
//	m, err := model.Load("linreg.hcl")
//	if err != nil {
//	    return err
//	}
//	loss, err := m.Node("loss")
//	if err != nil {
//	    return err
//	}
//	optimizer := optim.NewSGD(m.Trainable(), optim.SGDConfig{LR: 0.005})
//	for row := range m.Rows() {
//	    _ = m.Bind(row)
//	    optim.Minimize(loss, optimizer, optim.ReverseMode)
//	}
//
// # File Format
//
// variable blocks declare leaves with an optional value and trainable flag.
// node blocks bind a name to an arithmetic expression over numbers,
// variables and other nodes (+ - * /, unary minus, parentheses and
// pow(base, exponent)). An optional dataset attribute maps variable names to
// equal-length lists of numbers, one entry per row:
//
//	variable "w" {
//	  trainable = true
//	}
//	variable "x" {}
//	variable "y" {}
//	node "loss" {
//	  expr = pow(y - w * x, 2)
//	}
//	dataset = {
//	  x = [0, 1, 2]
//	  y = [0, 2, 4]
//	}
package model

import "github.com/born-ml/adgraph/internal/model"

// Model is a compiled model file.
type Model = model.Model

// Load reads and compiles the model file at path.
func Load(path string) (*Model, error) {
	return model.Load(path)
}

// Parse compiles model source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Model, error) {
	return model.Parse(src, filename)
}
