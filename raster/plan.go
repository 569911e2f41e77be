package raster

import mandel "github.com/marben/mandelraster"

// mirrorPlan returns, for every pixel row py, the row whose intensities it
// takes. src[py] == py marks a row that has to be evaluated.
//
// Row py sits at vertical index k = py - Height/2 + YOffset, so its
// conjugate partner (index -k) is row py - 2k. Rows with k <= 0 are
// evaluated, the real axis (k == 0) exactly once. A row with k > 0 copies
// its partner when the partner is on the canvas. The offset is part of k,
// so shifted viewports only mirror the rows that really are conjugate.
func mirrorPlan(v mandel.Viewport, symmetric bool) []int {
	src := make([]int, v.Height)
	for py := range src {
		src[py] = py
		if !symmetric {
			continue
		}
		k := py - v.Height/2 + v.YOffset
		if k <= 0 {
			continue
		}
		if partner := py - 2*k; partner >= 0 {
			src[py] = partner
		}
	}
	return src
}

// computedRows lists the rows of a plan that have to be evaluated.
func computedRows(src []int) []int {
	rows := make([]int, 0, len(src))
	for py, s := range src {
		if s == py {
			rows = append(rows, py)
		}
	}
	return rows
}
