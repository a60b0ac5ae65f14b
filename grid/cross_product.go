package grid

import "iter"

// CrossProduct yields pairs (x, y) with x varying fastest: for every y in
// Y, every x in X in order. X is re-walked once per value of Y; Y is
// walked once overall.
//
// The sequence is finite with length equal to the number of items X and Y
// each produce, multiplied together. It terminates immediately if either X
// or Y is empty.
func CrossProduct(x, y Range) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for yv := range y {
			for xv := range x {
				if !yield(xv, yv) {
					return
				}
			}
		}
	}
}
