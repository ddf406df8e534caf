package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adgraph/autodiff"
)

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// values parses the "name = value" lines of an output.
func values(t *testing.T, out string) map[string]float64 {
	t.Helper()
	parsed := make(map[string]float64)
	for _, line := range strings.Split(out, "\n") {
		name, raw, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		require.NoError(t, err, "line %q", line)
		parsed[name] = value
	}
	return parsed
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "adgraph "+version+"\n", out)
}

func TestEval_Partials(t *testing.T) {
	out, err := run(t, "eval", "testdata/mix.hcl",
		"--set", "x=3", "--set", "y=5", "--set", "z=11", "--format", "none")
	require.NoError(t, err)
	assert.Equal(t, `f = 70
d/dx: forward=5 reverse=5
d/dy: forward=14 reverse=14
d/dz: forward=5 reverse=5
`, out)
}

func TestEval_TreeDump(t *testing.T) {
	out, err := run(t, "eval", "testdata/mix.hcl", "--node", "f", "--mode", "reverse",
		"--set", "x=3", "--set", "y=5", "--set", "z=11")
	require.NoError(t, err)
	assert.Contains(t, out, "d/dy: reverse=14\n")
	assert.NotContains(t, out, "forward=14")
	assert.Contains(t, out, "+| val=70 grad=1 forward=NaN")
	assert.Contains(t, out, "x| val=3 grad=5 forward=NaN")
}

func TestEval_Table(t *testing.T) {
	out, err := run(t, "eval", "testdata/mix.hcl", "--mode", "forward", "--format", "table",
		"--set", "x=3", "--set", "y=5", "--set", "z=11")
	require.NoError(t, err)
	assert.Contains(t, out, "d/dx: forward=5\n")
	for _, header := range []string{"ID", "Name", "Op", "Value", "Grad"} {
		assert.Contains(t, out, header)
	}
}

func TestEval_DatasetRow(t *testing.T) {
	out, err := run(t, "eval", "testdata/linreg.hcl", "--node", "loss", "--row", "1",
		"--set", "w=0.5", "--set", "b=1", "--format", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "loss = 2.25\n")
	assert.Contains(t, out, "d/dw: forward=-3 reverse=-3\n")
	assert.Contains(t, out, "d/db: forward=-3 reverse=-3\n")
	assert.Contains(t, out, "d/dy: forward=3 reverse=3\n")
}

func TestEval_ConstantModel(t *testing.T) {
	for _, mode := range []string{"forward", "reverse", "both"} {
		t.Run(mode, func(t *testing.T) {
			out, err := run(t, "eval", "testdata/const.hcl", "--mode", mode, "--format", "none")
			require.NoError(t, err)
			assert.Equal(t, "c = 6\n", out)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"mode", []string{"eval", "testdata/mix.hcl", "--mode", "sideways"}, "unknown mode"},
		{"format", []string{"eval", "testdata/mix.hcl", "--format", "xml"}, "unknown format"},
		{"set syntax", []string{"eval", "testdata/mix.hcl", "--set", "x"}, "want name=value"},
		{"set unknown", []string{"eval", "testdata/mix.hcl", "--set", "q=1"}, "unknown variable"},
		{"set value", []string{"eval", "testdata/mix.hcl", "--set", "x=abc"}, "invalid --set"},
		{"node", []string{"eval", "testdata/mix.hcl", "--node", "g"}, `unknown node "g"`},
		{"row", []string{"eval", "testdata/linreg.hcl", "--row", "10"}, "out of range"},
		{"missing file", []string{"eval", "testdata/missing.hcl"}, "failed to read model file"},
		{"args", []string{"eval"}, "accepts 1 arg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMinimize_SGD(t *testing.T) {
	for _, mode := range []string{"forward", "reverse"} {
		t.Run(mode, func(t *testing.T) {
			out, err := run(t, "minimize", "testdata/bowl.hcl", "--lr", "0.1", "--iters", "100", "--mode", mode)
			require.NoError(t, err)
			got := values(t, out)
			assert.InDelta(t, 0, got["x"], 1e-6)
			assert.InDelta(t, 0, got["y"], 1e-6)
			assert.InDelta(t, 0, got["f"], 1e-10)
		})
	}
}

func TestMinimize_PrintEvery(t *testing.T) {
	out, err := run(t, "minimize", "testdata/bowl.hcl", "--iters", "3", "--print-every", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "step 0: f = 25\n"), out)
	assert.Contains(t, out, "step 2: f = ")
}

func TestMinimize_Adam(t *testing.T) {
	out, err := run(t, "minimize", "testdata/bowl.hcl", "--optimizer", "adam", "--lr", "0.1", "--iters", "500")
	require.NoError(t, err)
	assert.Less(t, values(t, out)["f"], 1.0)
}

func TestMinimize_Errors(t *testing.T) {
	_, err := run(t, "minimize", "testdata/mix.hcl")
	assert.ErrorContains(t, err, "no trainable variables")

	_, err = run(t, "minimize", "testdata/bowl.hcl", "--optimizer", "lbfgs")
	assert.ErrorContains(t, err, "unknown optimizer")

	_, err = run(t, "minimize", "testdata/bowl.hcl", "--mode", "sideways")
	assert.ErrorContains(t, err, "unknown gradient mode")
}

func TestFit_LinearRegression(t *testing.T) {
	out, err := run(t, "fit", "testdata/linreg.hcl", "--loss", "loss", "--epochs", "1000",
		"--lr", "0.005", "--seed", "7", "--progress=false", "--predict", "estimate")
	require.NoError(t, err)

	// Least squares solution: w = 1.1697, b = 1.2364.
	got := values(t, out)
	assert.InDelta(t, 1.1697, got["w"], 0.25)
	assert.InDelta(t, 1.2364, got["b"], 0.25)
	assert.Contains(t, out, "mean loss = ")
	assert.Contains(t, out, "estimate")
}

func TestFit_Deterministic(t *testing.T) {
	args := []string{"fit", "testdata/linreg.hcl", "--epochs", "20", "--seed", "3", "--progress=false"}
	first, err := run(t, args...)
	require.NoError(t, err)
	second, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFit_Errors(t *testing.T) {
	_, err := run(t, "fit", "testdata/bowl.hcl")
	assert.ErrorContains(t, err, "no dataset")

	_, err = run(t, "fit", "testdata/linreg.hcl", "--epochs", "1", "--progress=false", "--predict", "nope")
	assert.ErrorContains(t, err, `unknown node "nope"`)
}

func TestGuarded_RecoversGraphPanics(t *testing.T) {
	err := guarded(func() error {
		x := autodiff.NewGraph().Var("x")
		x.MulScalar(2).Assign(1)
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph error")

	assert.ErrorIs(t, guarded(func() error { return assert.AnError }), assert.AnError)
}
