package analysis

import "sort"

// Top returns the n largest entries of list by quantity, descending. Ties
// keep their order in list. list itself is not modified; n <= 0 keeps all.
func Top(list []Quantity, n int) []Quantity {
	out := append([]Quantity(nil), list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Qty > out[j].Qty })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
