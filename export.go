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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// trackShape is the shapefile record layout for exported track
// segments. The Point field sets the shapefile geometry type.
type trackShape struct {
	Point   geom.Point
	Height  float64
	Quality int
}

// WriteTrackShapefile writes the segments of t selected by mask to a
// point shapefile. A nil mask writes every segment. Project must
// have been called on the track first.
func WriteTrackShapefile(filename string, t *ATL06Track, mask []bool) error {
	if len(t.X) != t.Len() {
		return fmt.Errorf("icetrack: %s %s: track has not been projected", t.ID, t.Beam)
	}
	if mask != nil && len(mask) != t.Len() {
		return fmt.Errorf("icetrack: mask length %d does not match track length %d", len(mask), t.Len())
	}
	e, err := shp.NewEncoder(filename, trackShape{})
	if err != nil {
		return fmt.Errorf("icetrack: creating shapefile %s: %v", filename, err)
	}
	defer e.Close()
	for i := 0; i < t.Len(); i++ {
		if mask != nil && !mask[i] {
			continue
		}
		rec := trackShape{
			Point:   geom.Point{X: t.X[i], Y: t.Y[i]},
			Height:  t.Height[i],
			Quality: int(t.Quality[i]),
		}
		if err := e.Encode(rec); err != nil {
			return fmt.Errorf("icetrack: writing shapefile %s: %v", filename, err)
		}
	}
	return nil
}

// WriteSeriesNetCDF writes an ATL11 series to a NetCDF classic file
// with dimensions (point, cycle). Heights and times keep their NaN
// missing-value convention.
func WriteSeriesNetCDF(filename string, s *ATL11Series) error {
	n, m := s.Len(), len(s.Cycles)

	h := cdf.NewHeader([]string{"point", "cycle"}, []int{n, m})
	h.AddVariable("latitude", []string{"point"}, []float64{0})
	h.AddAttribute("latitude", "units", "degrees_north")
	h.AddVariable("longitude", []string{"point"}, []float64{0})
	h.AddAttribute("longitude", "units", "degrees_east")
	h.AddVariable("cycle_number", []string{"cycle"}, []int32{0})
	h.AddVariable("h_corr", []string{"point", "cycle"}, []float64{0})
	h.AddAttribute("h_corr", "units", "meters")
	h.AddAttribute("h_corr", "description", "slope-corrected land-ice height")
	h.AddVariable("delta_time", []string{"point", "cycle"}, []float64{0})
	h.AddAttribute("delta_time", "units", "seconds since 2018-01-01T00:00:00Z")
	h.AddAttribute("", "source_granule", string(s.ID.Product)+" "+s.ID.String())
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("icetrack: defining NetCDF header: %v", err)
	}

	ff, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("icetrack: creating %s: %v", filename, err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("icetrack: creating NetCDF file %s: %v", filename, err)
	}

	cycles := make([]int32, m)
	for j, c := range s.Cycles {
		cycles[j] = int32(c)
	}
	writes := []struct {
		name string
		data interface{}
		end  []int
	}{
		{"latitude", s.Lat, []int{n}},
		{"longitude", s.Lon, []int{n}},
		{"cycle_number", cycles, []int{m}},
		{"h_corr", s.Height.Elements, []int{n, m}},
		{"delta_time", s.Time.Elements, []int{n, m}},
	}
	for _, wr := range writes {
		begin := make([]int, len(wr.end))
		w := f.Writer(wr.name, begin, wr.end)
		if _, err := w.Write(wr.data); err != nil {
			return fmt.Errorf("icetrack: writing %s to %s: %v", wr.name, filename, err)
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		return fmt.Errorf("icetrack: finalizing %s: %v", filename, err)
	}
	return nil
}
