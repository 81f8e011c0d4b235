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

import "fmt"

// Beams lists the six beam groups of along-track land-ice products.
var Beams = []string{"gt1l", "gt1r", "gt2l", "gt2r", "gt3l", "gt3r"}

// Pairs lists the three beam-pair groups of ATL11 files.
var Pairs = []string{"pt1", "pt2", "pt3"}

// ATL06Track holds the land-ice height segments of one beam of one
// ATL06 granule. The arrays are parallel; heights have already had
// their fill values replaced with NaN when the source file carried a
// fill attribute. Records are never mutated after load except by
// Project.
type ATL06Track struct {
	ID   GranuleID
	Beam string

	// Lat and Lon are geodetic segment positions.
	Lat, Lon []float64

	// X and Y are projected positions, filled in by Project.
	X, Y []float64

	// Height is the land-ice height in meters.
	Height []float64

	// Quality is the per-segment quality summary; zero means the
	// segment is usable.
	Quality []int8
}

// Len returns the number of segments.
func (t *ATL06Track) Len() int { return len(t.Height) }

// Project fills in the projected positions X and Y.
func (t *ATL06Track) Project(p *Projector) error {
	x, y, err := p.Project(t.Lon, t.Lat)
	if err != nil {
		return fmt.Errorf("icetrack: projecting %s %s: %v", t.ID, t.Beam, err)
	}
	t.X, t.Y = x, y
	return nil
}

// QualityMask returns a mask that is true where the segment quality
// summary marks the measurement usable.
func (t *ATL06Track) QualityMask() []bool {
	mask := make([]bool, len(t.Quality))
	for i, q := range t.Quality {
		mask[i] = q == 0
	}
	return mask
}

// Select returns a selection mask for the segments inside r combined
// with the track's quality mask. Project must have been called first.
func (t *ATL06Track) Select(r Region) ([]bool, error) {
	if len(t.X) != len(t.Height) {
		return nil, fmt.Errorf("icetrack: %s %s: track has not been projected", t.ID, t.Beam)
	}
	sel, err := r.Mask(t.X, t.Y)
	if err != nil {
		return nil, err
	}
	return And(sel, t.QualityMask())
}
