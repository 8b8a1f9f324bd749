package bc1

import (
	"sort"
	"sync"
)

// histogram counts how many pixels, in order along the fit axis, fall into
// each selector bin. Unused bins stay zero.
type histogram [4]uint8

const (
	maxOrderings4 = 128
	maxOrderings3 = 32
)

// orderTable enumerates every way of splitting 16 sorted pixels into bins and,
// for each split, the nearest other splits to try next.
type orderTable struct {
	bins    int
	hists   []histogram
	index   map[histogram]int
	nearest [][]uint16
}

var (
	orders4Once, orders3Once sync.Once
	orders4, orders3         *orderTable
)

func orderTableFor(bins int) *orderTable {
	if bins == 3 {
		orders3Once.Do(func() { orders3 = buildOrderTable(3, maxOrderings3) })
		return orders3
	}
	orders4Once.Do(func() { orders4 = buildOrderTable(4, maxOrderings4) })
	return orders4
}

func buildOrderTable(bins, keep int) *orderTable {
	t := &orderTable{bins: bins, index: make(map[histogram]int)}
	var h histogram
	var walk func(bin, left int)
	walk = func(bin, left int) {
		if bin == bins-1 {
			h[bin] = uint8(left)
			t.index[h] = len(t.hists)
			t.hists = append(t.hists, h)
			return
		}
		for n := 0; n <= left; n++ {
			h[bin] = uint8(n)
			walk(bin+1, left-n)
		}
	}
	walk(0, 16)

	t.nearest = make([][]uint16, len(t.hists))
	order := make([]uint16, len(t.hists))
	for i, from := range t.hists {
		for j := range order {
			order[j] = uint16(j)
		}
		sort.SliceStable(order, func(a, b int) bool {
			return histDistance(from, t.hists[order[a]]) < histDistance(from, t.hists[order[b]])
		})
		n := min(keep, len(order))
		t.nearest[i] = append([]uint16(nil), order[:n]...)
	}
	return t
}

func histDistance(a, b histogram) int {
	d := 0
	for i := range a {
		d += absInt(int(a[i]) - int(b[i]))
	}
	return d
}

// candidates returns the histograms to try when starting from h. The first
// entry is always h itself.
func (t *orderTable) candidates(h histogram, count int, exhaustive bool) []histogram {
	if exhaustive {
		return t.hists
	}
	i, ok := t.index[h]
	if !ok {
		return nil
	}
	near := t.nearest[i]
	if count < len(near) {
		near = near[:count]
	}
	out := make([]histogram, len(near))
	for k, j := range near {
		out[k] = t.hists[j]
	}
	return out
}

// singleBin reports whether every pixel falls into one bin.
func (h histogram) singleBin() bool {
	for _, n := range h {
		if n == 16 {
			return true
		}
	}
	return false
}
