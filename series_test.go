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
	"reflect"
	"testing"
)

// testSeries builds a 3-point, 3-cycle series with one missing
// observation, with heights rising 1 m/yr at point 0.
func testSeries(t *testing.T) *ATL11Series {
	t.Helper()
	nan := math.NaN()
	s, err := NewATL11Series(
		GranuleID{Product: ATL11, Track: 548, Subregion: 3, CycleStart: 3, CycleEnd: 5},
		"pt2",
		[]float64{69.1, 69.2, 69.3},
		[]float64{-49.5, -49.4, -49.3},
		[]int{3, 4, 5},
		[]float64{
			100, 100.25, 100.5,
			200, nan, 201,
			300, 300.1, 300.2,
		},
		[]float64{
			0, 0.25 * secondsPerYear, 0.5 * secondsPerYear,
			0, nan, 0.5 * secondsPerYear,
			0, 0.25 * secondsPerYear, 0.5 * secondsPerYear,
		})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCycleHeights(t *testing.T) {
	s := testSeries(t)
	got, err := s.CycleHeights(4)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 100.25 || !math.IsNaN(got[1]) || got[2] != 300.1 {
		t.Errorf("got %v", got)
	}
	if _, err := s.CycleHeights(9); err == nil {
		t.Error("expected error for absent cycle")
	}
}

func TestQualityMask(t *testing.T) {
	s := testSeries(t)
	mask, err := s.QualityMask(4)
	if err != nil {
		t.Fatal(err)
	}
	// The missing observation at point 1 was flagged unusable.
	want := []bool{true, false, true}
	if !reflect.DeepEqual(mask, want) {
		t.Errorf("got %v, want %v", mask, want)
	}
}

func TestChangeRate(t *testing.T) {
	s := testSeries(t)
	rate, ok := s.ChangeRate(0)
	if !ok {
		t.Fatal("expected a fit at point 0")
	}
	if math.Abs(rate-1.0) > 1e-9 {
		t.Errorf("got %g m/yr, want 1.0", rate)
	}

	// Point 1 has two usable observations: 1 m over half a year.
	rate, ok = s.ChangeRate(1)
	if !ok {
		t.Fatal("expected a fit at point 1")
	}
	if math.Abs(rate-2.0) > 1e-9 {
		t.Errorf("got %g m/yr, want 2.0", rate)
	}
}

func TestMeanChange(t *testing.T) {
	s := testSeries(t)
	mean, ok := s.MeanChange(3, 5, nil)
	if !ok {
		t.Fatal("expected a mean")
	}
	// Changes are 0.5, 1, and 0.2 m.
	want := (0.5 + 1 + 0.2) / 3
	if math.Abs(mean-want) > 1e-9 {
		t.Errorf("got %g, want %g", mean, want)
	}

	mean, ok = s.MeanChange(3, 5, []bool{true, false, false})
	if !ok || math.Abs(mean-0.5) > 1e-9 {
		t.Errorf("masked mean: got %g (ok=%v), want 0.5", mean, ok)
	}

	if _, ok := s.MeanChange(3, 9, nil); ok {
		t.Error("expected no mean for absent cycle")
	}
}

func TestNearest(t *testing.T) {
	s := testSeries(t)
	// Synthetic projected positions; no reprojection needed for the
	// index itself.
	s.X = []float64{0, 1000, 2000}
	s.Y = []float64{0, 0, 0}

	if got := s.Nearest(900, 10, 500); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := s.Nearest(1e6, 0, 500); got != -1 {
		t.Errorf("got %d, want -1 outside search radius", got)
	}
	if got := s.Nearest(1990, -5, 500); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestPointSeriesAccessors(t *testing.T) {
	s := testSeries(t)
	h := s.PointHeights(2)
	if !reflect.DeepEqual(h, []float64{300, 300.1, 300.2}) {
		t.Errorf("got %v", h)
	}
	ts := s.PointTimes(0)
	if ts[0] != 0 || math.Abs(ts[1]-0.25) > 1e-12 || math.Abs(ts[2]-0.5) > 1e-12 {
		t.Errorf("got %v", ts)
	}
}
