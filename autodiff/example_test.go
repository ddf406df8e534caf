package autodiff_test

import (
	"fmt"
	"os"

	"github.com/born-ml/adgraph/autodiff"
)

func Example() {
	g := autodiff.NewGraph()
	x, y, z := g.Var("x"), g.Var("y"), g.Var("z")
	f := x.Mul(y).Add(y.Mul(z))

	x.Assign(3)
	y.Assign(5)
	z.Assign(11)
	fmt.Println(f.Value())
	fmt.Println(f.Forward(y))

	f.Backward()
	fmt.Println(x.Grad(), y.Grad(), z.Grad())
	// Output:
	// 70
	// 14
	// 5 14 5
}

func ExampleVar_Dump() {
	g := autodiff.NewGraph()
	x := g.Var("x")
	f := x.MulScalar(2).Neg()
	x.Assign(3)
	f.Backward()
	_ = f.Dump(os.Stdout)
	// Output:
	// neg| val=-6 grad=1 forward=NaN
	//    *| val=6 grad=-1 forward=NaN
	//       x| val=3 grad=-2 forward=NaN
	//       2| val=2 grad=-3 forward=NaN
}
