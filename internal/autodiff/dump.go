package autodiff

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// dumpIndent is added per tree level by Dump.
const dumpIndent = "   "

// Dump writes v and its subgraph as an indented tree, one node per line:
//
//	+| val=70 grad=1 forward=14
//	   *| val=15 grad=1 forward=3
//	      x| val=3 grad=5 forward=0
//
// Leaves are written once per use. A composite node's subtree is expanded
// only the first time; later uses get a single line ending in "(shared #id)".
// Dump reads the scratch slots as left by the last pass and runs no pass
// itself.
func (v Var) Dump(w io.Writer) error {
	v.mustValid()
	expanded := make([]bool, len(v.graph.nodes))
	return v.graph.dump(w, v.id, "", expanded)
}

func (g *Graph) dump(w io.Writer, id NodeID, prefix string, expanded []bool) error {
	n := &g.nodes[id]
	name := n.name
	if name == "" {
		name = "#" + strconv.Itoa(int(id))
	}
	line := fmt.Sprintf("%s%s| val=%v grad=%v forward=%v", prefix, name, n.value, n.adjoint, n.forward)
	if len(n.children) > 0 && expanded[id] {
		_, err := fmt.Fprintf(w, "%s (shared #%d)\n", line, id)
		return err
	}
	expanded[id] = true
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := g.dump(w, child, prefix+dumpIndent, expanded); err != nil {
			return err
		}
	}
	return nil
}

// Table renders every node reachable from v, in PostOrder, as a table of its
// scratch slots.
func (v Var) Table() string {
	v.mustValid()
	g := v.graph

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "Name", "Op", "Children", "Value", "Forward", "Grad")

	for _, id := range g.postOrder(v.id) {
		n := &g.nodes[id]
		children := make([]string, len(n.children))
		for i, child := range n.children {
			children[i] = "#" + strconv.Itoa(int(child))
		}
		table.Row(
			"#"+strconv.Itoa(int(id)),
			n.name,
			n.kind.String(),
			strings.Join(children, " "),
			formatFloat(n.value),
			formatFloat(n.forward),
			formatFloat(n.adjoint),
		)
	}
	return table.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
