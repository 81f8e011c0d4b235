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
	"math"
	"testing"
)

func TestSanitize(t *testing.T) {
	const fill = 3.4028235e38
	v := []float64{1.5, fill, -2.25, fill, 0}
	Sanitize(v, fill)

	for _, i := range []int{1, 3} {
		if !math.IsNaN(v[i]) {
			t.Errorf("index %d: got %g, want NaN", i, v[i])
		}
	}
	for i, want := range map[int]float64{0: 1.5, 2: -2.25, 4: 0} {
		if v[i] != want {
			t.Errorf("index %d: got %g, want %g", i, v[i], want)
		}
	}

	// Idempotence: a second pass changes nothing.
	w := append([]float64(nil), v...)
	Sanitize(w, fill)
	for i := range v {
		if math.IsNaN(v[i]) != math.IsNaN(w[i]) {
			t.Errorf("index %d: second pass changed NaN state", i)
		}
		if !math.IsNaN(v[i]) && v[i] != w[i] {
			t.Errorf("index %d: second pass changed %g to %g", i, v[i], w[i])
		}
	}
}

func TestSanitizeBitExact(t *testing.T) {
	// A value close to, but not bit-identical to, the sentinel must
	// survive.
	fill := 3.4028235e38
	near := math.Nextafter(fill, 0)
	v := []float64{near}
	Sanitize(v, fill)
	if math.IsNaN(v[0]) {
		t.Error("near-sentinel value was incorrectly sanitized")
	}
}

func TestSanitize32(t *testing.T) {
	fill := float32(math.MaxFloat32)
	v := []float32{1, fill, 2}
	Sanitize32(v, fill)
	if !math.IsNaN(float64(v[1])) {
		t.Errorf("got %g, want NaN", v[1])
	}
	if v[0] != 1 || v[2] != 2 {
		t.Errorf("non-sentinel entries changed: %v", v)
	}
}
