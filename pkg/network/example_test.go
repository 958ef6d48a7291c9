package network_test

import (
	"fmt"

	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/network"
)

func Example() {
	net, err := network.BuildString(`(K (1 100) (5 I (3 N) (2 N) nil) nil nil)`, network.Options{})
	if err != nil {
		panic(err)
	}
	net.ResolveLabels()

	q := net.Takeoff()
	for _, k := range q.PartKeys() {
		fmt.Println(k.Name(), k.Spec(), q.Parts[k])
	}
	for _, k := range q.PipeKeys() {
		fmt.Printf("%s %s %.2f\n", estimate.PipeName, k.Spec(), q.Pipes[k])
	}
	// Output:
	// 合流マス φ150×100×H1.0 1
	// 排水管 φ100×H0.8～1.0 10.00
}
