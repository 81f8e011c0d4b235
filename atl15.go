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

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
)

// ATL15Grid holds one gridded land-ice height-change raster: a
// time × y × x stack of height differences relative to a datum
// surface, on a fixed polar stereographic grid.
type ATL15Grid struct {
	ID GranuleID

	// X and Y are the projected grid cell center coordinates.
	X, Y []float64

	// Time gives the mid-cycle time of each layer, in days since
	// the ATLAS epoch.
	Time []float64

	// DeltaH is the time × y × x height-change stack; missing cells
	// are NaN.
	DeltaH *sparse.DenseArray
}

// ReadATL15 reads the delta_h group of an ATL15 granule. Fill values
// are replaced with NaN when the variable carries a _FillValue
// attribute.
func ReadATL15(path string) (*ATL15Grid, error) {
	id, err := ParseGranule(path)
	if err != nil {
		return nil, err
	}
	if id.Product != ATL15 {
		return nil, fmt.Errorf("icetrack: %s is %s, not ATL15", path, id.Product)
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icetrack: opening %s: %v", path, err)
	}
	defer nc.Close()

	g, err := nc.GetGroup("delta_h")
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s: opening group delta_h: %v", path, err)
	}
	defer g.Close()

	grid := &ATL15Grid{ID: id}
	if grid.X, err = readAxis(g, "x"); err != nil {
		return nil, fmt.Errorf("icetrack: %s: %v", path, err)
	}
	if grid.Y, err = readAxis(g, "y"); err != nil {
		return nil, fmt.Errorf("icetrack: %s: %v", path, err)
	}
	if grid.Time, err = readAxis(g, "time"); err != nil {
		return nil, fmt.Errorf("icetrack: %s: %v", path, err)
	}

	v, err := g.GetVariable("delta_h")
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s: reading delta_h: %v", path, err)
	}
	data, err := flatten3(v.Values)
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s: reading delta_h: %v", path, err)
	}
	nt, ny, nx := len(grid.Time), len(grid.Y), len(grid.X)
	if len(data) != nt*ny*nx {
		return nil, fmt.Errorf("icetrack: %s: delta_h has %d values, want %d×%d×%d",
			path, len(data), nt, ny, nx)
	}
	if fill, ok := ncFillValue(v.Attributes); ok {
		Sanitize(data, fill)
	}
	grid.DeltaH = sparse.ZerosDense(nt, ny, nx)
	copy(grid.DeltaH.Elements, data)
	return grid, nil
}

// Layer returns the y × x height-change raster for one time layer.
func (g *ATL15Grid) Layer(k int) (*sparse.DenseArray, error) {
	if k < 0 || k >= len(g.Time) {
		return nil, fmt.Errorf("icetrack: layer %d out of range [0,%d)", k, len(g.Time))
	}
	ny, nx := len(g.Y), len(g.X)
	o := sparse.ZerosDense(ny, nx)
	copy(o.Elements, g.DeltaH.Elements[k*ny*nx:(k+1)*ny*nx])
	return o, nil
}

// SeriesAt returns the height-change series over time at the grid
// cell nearest to the projected position (x, y).
func (g *ATL15Grid) SeriesAt(x, y float64) []float64 {
	i := nearestAxis(g.Y, y)
	j := nearestAxis(g.X, x)
	o := make([]float64, len(g.Time))
	for k := range o {
		o[k] = g.DeltaH.Get(k, i, j)
	}
	return o
}

// nearestAxis returns the index of the axis value closest to v.
func nearestAxis(axis []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, a := range axis {
		if d := math.Abs(a - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// readAxis reads a one-dimensional coordinate variable.
func readAxis(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	o, err := toFloat64s(v.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	return o, nil
}

// ncFillValue extracts a numeric _FillValue attribute.
func ncFillValue(attrs api.AttributeMap) (fill float64, ok bool) {
	if attrs == nil {
		return 0, false
	}
	val, has := attrs.Get("_FillValue")
	if !has {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	}
	return 0, false
}

// toFloat64s converts a NetCDF 1-D variable value to []float64.
func toFloat64s(val interface{}) ([]float64, error) {
	switch v := val.(type) {
	case []float64:
		return v, nil
	case []float32:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(x)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(x)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported axis type %T", val)
	}
}

// flatten3 converts a NetCDF 3-D variable value to a flat []float64
// in row-major order. Fill sentinels survive the float32→float64
// conversion bit-consistently, so sanitization after flattening
// still matches exactly.
func flatten3(val interface{}) ([]float64, error) {
	switch v := val.(type) {
	case [][][]float64:
		var o []float64
		for _, plane := range v {
			for _, row := range plane {
				o = append(o, row...)
			}
		}
		return o, nil
	case [][][]float32:
		var o []float64
		for _, plane := range v {
			for _, row := range plane {
				for _, x := range row {
					o = append(o, float64(x))
				}
			}
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported raster type %T", val)
	}
}
