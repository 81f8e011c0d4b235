/*
Copyright © 2024 the ICETrack authors.
This file is part of ICETrack.

ICETrack is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ICETrack is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ICETrack.  If not, see <http://www.gnu.org/licenses/>.
*/

package icetrack

import (
	"fmt"

	"github.com/ctessum/geom"
)

// Region is a rectangular region of interest in projected
// coordinates. A degenerate or inverted rectangle selects nothing;
// it is not an error.
type Region struct {
	Xmin, Xmax, Ymin, Ymax float64
}

// Empty reports whether the region selects nothing.
func (r Region) Empty() bool {
	return !(r.Xmin < r.Xmax && r.Ymin < r.Ymax)
}

// Contains reports whether the point lies strictly inside the region
// on both axes. Points exactly on a boundary are excluded.
func (r Region) Contains(x, y float64) bool {
	return r.Xmin < x && x < r.Xmax && r.Ymin < y && y < r.Ymax
}

// Bounds returns the region as a geom.Bounds, for use with spatial
// indexes.
func (r Region) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: r.Xmin, Y: r.Ymin},
		Max: geom.Point{X: r.Xmax, Y: r.Ymax},
	}
}

// Mask returns a selection mask over the parallel coordinate arrays
// x and y, true where the point lies strictly inside the region.
// The inputs are not modified.
func (r Region) Mask(x, y []float64) ([]bool, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("icetrack: coordinate length mismatch: %d != %d", len(x), len(y))
	}
	mask := make([]bool, len(x))
	if r.Empty() {
		return mask, nil
	}
	for i := range x {
		mask[i] = r.Contains(x[i], y[i])
	}
	return mask, nil
}

// And combines a selection mask with another mask, typically a
// quality mask, by logical AND. The result is pointwise ≤ both
// inputs.
func And(a, b []bool) ([]bool, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("icetrack: mask length mismatch: %d != %d", len(a), len(b))
	}
	o := make([]bool, len(a))
	for i := range a {
		o[i] = a[i] && b[i]
	}
	return o, nil
}

// Selected returns the elements of v at positions where mask is true.
func Selected(v []float64, mask []bool) []float64 {
	var o []float64
	for i, m := range mask {
		if m {
			o = append(o, v[i])
		}
	}
	return o
}

// Count returns the number of true entries in mask.
func Count(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}
