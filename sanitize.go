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

import "math"

// Sanitize replaces, in place, every entry of v that is bit-identical
// to the fill sentinel with NaN. It must be applied before any
// statistic is computed over the array, otherwise sentinel values
// silently participate in the arithmetic. Applying it twice is a
// no-op.
func Sanitize(v []float64, fill float64) {
	fb := math.Float64bits(fill)
	for i, x := range v {
		if math.Float64bits(x) == fb {
			v[i] = math.NaN()
		}
	}
}

// Sanitize32 is Sanitize for float32 arrays.
func Sanitize32(v []float32, fill float32) {
	fb := math.Float32bits(fill)
	for i, x := range v {
		if math.Float32bits(x) == fb {
			v[i] = float32(math.NaN())
		}
	}
}
