package masonry_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/topicgrid/pkg/masonry"
)

func ExampleCompute() {
	items := []masonry.Item{
		{ID: "welcome"},
		{ID: "photo", Thumbnail: &masonry.Size{Width: 200, Height: 100}},
		{ID: "poster", Thumbnail: &masonry.Size{Width: 300, Height: 900}},
	}

	l, ok := masonry.Compute(masonry.DefaultConfig(), 900, items)
	if !ok {
		return
	}

	fmt.Printf("%d columns of %.0fpx\n", l.Columns, math.Round(l.ColumnWidth))
	for _, p := range l.Placements {
		fmt.Printf("%s: column %d, height %.0f, above %.0f\n",
			p.ItemID, p.Column, math.Round(p.Height), math.Round(p.HeightAbove))
	}
	fmt.Printf("tallest %.0f\n", math.Round(l.TallestColumn))
	// Output:
	// 3 columns of 267px
	// welcome: column 0, height 281, above 0
	// photo: column 1, height 209, above 0
	// poster: column 2, height 457, above 0
	// tallest 507
}
