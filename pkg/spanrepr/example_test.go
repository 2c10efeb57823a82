package spanrepr_test

import (
	"fmt"
	"log"

	"github.com/crimson-sun/spanrepr/pkg/spanrepr"
)

func ExampleNew() {
	// One sequence of five 4-dim token vectors with sequential values.
	data := make([]float32, 20)
	for i := range data {
		data[i] = float32(i)
	}
	enc := spanrepr.Encoded{Data: data, BatchSize: 1, SeqLen: 5, Dim: 4}

	repr, err := spanrepr.New(4, "mean")
	if err != nil {
		log.Fatal(err)
	}

	// Average of token rows 1..3.
	out := repr.Forward(enc, []int64{1}, []int64{3})
	fmt.Println(repr.OutputDim(), out)
	// Output:
	// 4 [8 9 10 11]
}
