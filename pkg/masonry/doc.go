// Package masonry computes masonry grid geometry for thumbnail topic lists.
//
// A masonry grid packs items into columns of equal width but variable
// height. Items are placed greedily, in input order, into the column with the
// smallest accumulated height (the left-most one on ties), so columns stay
// visually balanced without a native layout engine.
//
// # Algorithm
//
// Given a container width W and a [Config]:
//
//  1. columns = floor(W / TargetColumnWidth), at least 1
//  2. columnWidth = (W - (columns-1)*GridSpacing) / columns
//  3. for each item: aspect = max(w/h or DefaultAspect, MinAspect),
//     height = columnWidth/aspect + TitleReserveHeight, placed in the
//     shortest column; that column grows by height + GridSpacing
//  4. TallestColumn is the largest column accumulator
//
// Every pass starts from zeroed accumulators; nothing carries over between
// passes except the configuration. All arithmetic stays in float64. Rounding
// to whole pixels is left to the output layer (see package css).
//
// # Usage
//
//	l, ok := masonry.Compute(masonry.DefaultConfig(), 900, items)
//	if !ok {
//	    return // container width not known yet
//	}
//	for _, p := range l.Placements {
//	    fmt.Println(p.ItemID, p.Column, p.HeightAbove)
//	}
//
// [Engine] wraps [Compute] with a validated configuration, logging and
// observability hooks.
package masonry
