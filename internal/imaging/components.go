// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package imaging

// componentSizes labels connected components in a binary mask using
// 4-connectivity union-find and returns the pixel area of each component.
// The mask is row-major with width w and height h.
func componentSizes(mask []bool, w, h int) []int {
	parent := make([]int32, w*h)
	for i := range parent {
		parent[i] = int32(i)
	}

	var find func(int32) int32
	find = func(i int32) int32 {
		for parent[i] != i {
			parent[i] = parent[parent[i]] // path halving
			i = parent[i]
		}
		return i
	}
	union := func(a, b int32) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !mask[idx] {
				continue
			}
			if x > 0 && mask[idx-1] {
				union(int32(idx), int32(idx-1))
			}
			if y > 0 && mask[idx-w] {
				union(int32(idx), int32(idx-w))
			}
		}
	}

	counts := make(map[int32]int)
	for i, on := range mask {
		if on {
			counts[find(int32(i))]++
		}
	}

	sizes := make([]int, 0, len(counts))
	for _, c := range counts {
		sizes = append(sizes, c)
	}
	return sizes
}
