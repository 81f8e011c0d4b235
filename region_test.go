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
	"reflect"
	"testing"
)

func TestRegionMask(t *testing.T) {
	// Jakobshavn-like rectangle in polar stereographic meters.
	r := Region{Xmin: 1.015e6, Xmax: 1.060e6, Ymin: -4.2e5, Ymax: -3.85e5}

	x := []float64{1.015e6, 1.02e6, 1.06e6, 1.03e6, 1.03e6, 0}
	y := []float64{-4.0e5, -4.0e5, -4.0e5, -4.2e5, -3.9e5, 0}
	// x == Xmin and x == Xmax are on the boundary and excluded;
	// same for y == Ymin.
	want := []bool{false, true, false, false, true, false}

	got, err := r.Mask(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRegionMaskLengthMismatch(t *testing.T) {
	r := Region{Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1}
	if _, err := r.Mask([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestRegionEmpty(t *testing.T) {
	inverted := Region{Xmin: 2, Xmax: 1, Ymin: 0, Ymax: 1}
	if !inverted.Empty() {
		t.Error("inverted rectangle should be empty")
	}
	mask, err := inverted.Mask([]float64{1.5}, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if Count(mask) != 0 {
		t.Errorf("inverted rectangle selected %d points", Count(mask))
	}

	degenerate := Region{Xmin: 1, Xmax: 1, Ymin: 0, Ymax: 1}
	if !degenerate.Empty() {
		t.Error("degenerate rectangle should be empty")
	}
}

func TestAnd(t *testing.T) {
	sel := []bool{true, true, false, false}
	quality := []bool{true, false, true, false}
	got, err := And(sel, quality)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, false, false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// The combined mask must be a pointwise subset of both inputs.
	for i := range got {
		if got[i] && (!sel[i] || !quality[i]) {
			t.Errorf("index %d: combined mask not a subset of inputs", i)
		}
	}
	if _, err := And(sel, quality[:3]); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestSelected(t *testing.T) {
	v := []float64{10, 20, 30, 40}
	mask := []bool{true, false, false, true}
	got := Selected(v, mask)
	if !reflect.DeepEqual(got, []float64{10, 40}) {
		t.Errorf("got %v", got)
	}
	if got := Selected(v, []bool{false, false, false, false}); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}
