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

	"github.com/ctessum/sparse"
	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// ReadATL11 reads the repeat-track height series for one beam pair
// of an ATL11 granule. The height and time matrices are sanitized
// using their _FillValue attributes when present. Missing position,
// height, or cycle datasets are an error: the file is unusable and
// the caller should skip it.
func ReadATL11(path, pair string) (*ATL11Series, error) {
	id, err := ParseGranule(path)
	if err != nil {
		return nil, err
	}
	if id.Product != ATL11 {
		return nil, fmt.Errorf("icetrack: %s is %s, not ATL11", path, id.Product)
	}

	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icetrack: opening %s: %v", path, err)
	}
	defer f.Close()

	g, err := f.OpenGroup("/" + pair)
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s: opening pair group %s: %v", path, pair, err)
	}

	s := &ATL11Series{ID: id, Pair: pair}
	if s.Lat, err = readFloat64(g, "latitude"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}
	if s.Lon, err = readFloat64(g, "longitude"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}

	cycles, err := readInt32(g, "cycle_number")
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}
	s.Cycles = make([]int, len(cycles))
	for i, c := range cycles {
		s.Cycles[i] = int(c)
	}

	n, m := len(s.Lat), len(s.Cycles)
	if s.Height, err = readMatrix(g, "h_corr", n, m); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}
	if s.Time, err = readMatrix(g, "delta_time", n, m); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}
	if s.Quality, err = readIntMatrix(g, "quality_summary", n, m); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, pair, err)
	}
	return s, nil
}

// readInt32 reads an integer dataset, such as a cycle axis.
func readInt32(g *hdf5.Group, name string) ([]int32, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	v, err := d.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	return v, nil
}

// readMatrix reads an n × m float64 dataset into a dense array,
// replacing fill values with NaN when the dataset carries a
// _FillValue attribute.
func readMatrix(g *hdf5.Group, name string, n, m int) (*sparse.DenseArray, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	dims := d.Shape()
	if len(dims) != 2 || int(dims[0]) != n || int(dims[1]) != m {
		return nil, fmt.Errorf("reading %s: dimensions %v, want [%d %d]", name, dims, n, m)
	}
	v, err := d.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	if fill, ok := fillValue(d); ok {
		Sanitize(v, fill)
	}
	a := sparse.ZerosDense(n, m)
	copy(a.Elements, v)
	return a, nil
}

// readIntMatrix reads an n × m integer dataset into a dense integer
// array. A missing quality dataset degrades to all-usable rather
// than failing the file.
func readIntMatrix(g *hdf5.Group, name string, n, m int) (*sparse.DenseArrayInt, error) {
	a := sparse.ZerosDenseInt(n, m)
	d, err := g.OpenDataset(name)
	if err != nil {
		return a, nil
	}
	dims := d.Shape()
	if len(dims) != 2 || int(dims[0]) != n || int(dims[1]) != m {
		return nil, fmt.Errorf("reading %s: dimensions %v, want [%d %d]", name, dims, n, m)
	}
	v, err := d.ReadInt8()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	for i, q := range v {
		a.Elements[i] = int(q)
	}
	return a, nil
}

// NewATL11Series builds a series from already-loaded arrays. It is
// used by tests and by callers that assemble series from other
// sources; heights and times must already be sanitized or use NaN
// for missing observations.
func NewATL11Series(id GranuleID, pair string, lat, lon []float64, cycles []int, heights, times []float64) (*ATL11Series, error) {
	n, m := len(lat), len(cycles)
	if len(lon) != n || len(heights) != n*m || len(times) != n*m {
		return nil, fmt.Errorf("icetrack: inconsistent series dimensions: %d points, %d cycles, %d heights, %d times",
			n, m, len(heights), len(times))
	}
	s := &ATL11Series{
		ID:      id,
		Pair:    pair,
		Lat:     lat,
		Lon:     lon,
		Cycles:  cycles,
		Height:  sparse.ZerosDense(n, m),
		Time:    sparse.ZerosDense(n, m),
		Quality: sparse.ZerosDenseInt(n, m),
	}
	copy(s.Height.Elements, heights)
	copy(s.Time.Elements, times)
	for i, h := range heights {
		if math.IsNaN(h) {
			s.Quality.Elements[i] = 1
		}
	}
	return s, nil
}
