package pathfind_test

import (
	"fmt"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/pathfind"
)

// ExampleGetConnected wires two boards deep and asks which pins the
// "gnd" pin of the first board reaches.
func ExampleGetConnected() {
	g := core.NewGraph()

	boardA, boardB := g.CreateNode(), g.CreateNode()
	gndA, gndB := g.CreateNode(), g.CreateNode()
	_, _ = g.AddEdge(core.Composition, boardA, gndA, core.WithName("gnd"))
	_, _ = g.AddEdge(core.Composition, boardB, gndB, core.WithName("gnd"))

	// A deep connection between the boards mirrors onto same-named pins.
	_, _ = g.AddEdge(core.InterfaceConnection, boardA, boardB)

	res, err := pathfind.GetConnected(g, gndA)
	if err != nil {
		fmt.Println("unexpected:", err)
		return
	}
	fmt.Println("reached:", len(res.Paths))

	path, _ := res.PathTo(gndB)
	fmt.Println("witness:", path)

	// Output:
	// reached: 1
	// witness: ^gnd~.gnd
}
