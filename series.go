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
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
)

const secondsPerYear = 365.25 * 24 * 3600

// ATL11Series holds the repeat-track height series of one beam pair
// of one ATL11 granule: n reference points observed over m cycles.
type ATL11Series struct {
	ID   GranuleID
	Pair string

	// Lat and Lon are geodetic reference-point positions.
	Lat, Lon []float64

	// X and Y are projected positions, filled in by Project.
	X, Y []float64

	// Cycles is the cycle axis of the height matrix.
	Cycles []int

	// Height is the points × cycles matrix of slope-corrected
	// heights; missing observations are NaN after sanitization.
	Height *sparse.DenseArray

	// Time is the points × cycles matrix of observation times, in
	// seconds since the ATLAS epoch (2018-01-01T00:00:00 UTC);
	// missing observations are NaN.
	Time *sparse.DenseArray

	// Quality is the points × cycles quality summary matrix; zero
	// means usable.
	Quality *sparse.DenseArrayInt

	index *rtree.Rtree
}

// Len returns the number of reference points.
func (s *ATL11Series) Len() int { return len(s.Lat) }

// Project fills in the projected positions X and Y and invalidates
// any previously built spatial index.
func (s *ATL11Series) Project(p *Projector) error {
	x, y, err := p.Project(s.Lon, s.Lat)
	if err != nil {
		return fmt.Errorf("icetrack: projecting %s %s: %v", s.ID, s.Pair, err)
	}
	s.X, s.Y = x, y
	s.index = nil
	return nil
}

// CycleIndex returns the position of cycle on the cycle axis, or -1
// if the cycle is not present.
func (s *ATL11Series) CycleIndex(cycle int) int {
	for j, c := range s.Cycles {
		if c == cycle {
			return j
		}
	}
	return -1
}

// CycleHeights returns the heights of all reference points for one
// cycle. The returned slice is a copy.
func (s *ATL11Series) CycleHeights(cycle int) ([]float64, error) {
	j := s.CycleIndex(cycle)
	if j < 0 {
		return nil, fmt.Errorf("icetrack: %s %s: no cycle %d", s.ID, s.Pair, cycle)
	}
	o := make([]float64, s.Len())
	for i := range o {
		o[i] = s.Height.Get(i, j)
	}
	return o, nil
}

// QualityMask returns, for one cycle, a mask that is true where the
// quality summary marks the observation usable.
func (s *ATL11Series) QualityMask(cycle int) ([]bool, error) {
	j := s.CycleIndex(cycle)
	if j < 0 {
		return nil, fmt.Errorf("icetrack: %s %s: no cycle %d", s.ID, s.Pair, cycle)
	}
	mask := make([]bool, s.Len())
	for i := range mask {
		mask[i] = s.Quality.Get(i, j) == 0
	}
	return mask, nil
}

// PointHeights returns the height series of reference point i across
// all cycles.
func (s *ATL11Series) PointHeights(i int) []float64 {
	o := make([]float64, len(s.Cycles))
	for j := range o {
		o[j] = s.Height.Get(i, j)
	}
	return o
}

// PointTimes returns the observation times of reference point i, in
// years since the ATLAS epoch.
func (s *ATL11Series) PointTimes(i int) []float64 {
	o := make([]float64, len(s.Cycles))
	for j := range o {
		o[j] = s.Time.Get(i, j) / secondsPerYear
	}
	return o
}

// indexedPoint ties a projected position to its array position so
// that spatial queries can recover the index.
type indexedPoint struct {
	geom.Point
	i int
}

// Nearest returns the index of the reference point nearest to the
// projected position (x, y), searching within radius meters. It
// returns -1 when no point lies within the search box. Project must
// have been called first.
func (s *ATL11Series) Nearest(x, y, radius float64) int {
	if s.index == nil {
		s.index = rtree.NewTree(25, 50)
		for i := range s.X {
			s.index.Insert(indexedPoint{Point: geom.Point{X: s.X[i], Y: s.Y[i]}, i: i})
		}
	}
	box := &geom.Bounds{
		Min: geom.Point{X: x - radius, Y: y - radius},
		Max: geom.Point{X: x + radius, Y: y + radius},
	}
	best := -1
	bestDist := math.Inf(1)
	for _, item := range s.index.SearchIntersect(box) {
		p := item.(indexedPoint)
		d := (p.X-x)*(p.X-x) + (p.Y-y)*(p.Y-y)
		if d < bestDist {
			bestDist = d
			best = p.i
		}
	}
	return best
}

// ChangeRate returns the least-squares height change rate, in meters
// per year, at reference point i, fit across all cycles with a
// usable height and time. ok is false when fewer than two usable
// observations exist.
func (s *ATL11Series) ChangeRate(i int) (rate float64, ok bool) {
	var t, h []float64
	for j := range s.Cycles {
		hv := s.Height.Get(i, j)
		tv := s.Time.Get(i, j)
		if math.IsNaN(hv) || math.IsNaN(tv) {
			continue
		}
		t = append(t, tv/secondsPerYear)
		h = append(h, hv)
	}
	if len(h) < 2 {
		return 0, false
	}
	slope, _, _, _, _, _ := stats.LinearRegression(t, h)
	return slope, true
}

// MeanChange returns the mean height difference between two cycles
// over the reference points inside the region mask, skipping points
// where either cycle is missing. ok is false when no point
// contributes.
func (s *ATL11Series) MeanChange(cycleA, cycleB int, mask []bool) (mean float64, ok bool) {
	ja, jb := s.CycleIndex(cycleA), s.CycleIndex(cycleB)
	if ja < 0 || jb < 0 {
		return 0, false
	}
	var sum float64
	var n int
	for i := 0; i < s.Len(); i++ {
		if mask != nil && !mask[i] {
			continue
		}
		a, b := s.Height.Get(i, ja), s.Height.Get(i, jb)
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		sum += b - a
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
