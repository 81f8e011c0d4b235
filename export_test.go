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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom/encoding/shp"
)

func TestWriteTrackShapefile(t *testing.T) {
	dir, err := ioutil.TempDir("", "icetrack")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	track := &ATL06Track{
		Beam:    "gt2r",
		Lat:     []float64{69.0, 69.01, 69.02},
		Lon:     []float64{-49.0, -49.0, -49.0},
		X:       []float64{1.02e6, 1.03e6, 1.04e6},
		Y:       []float64{-4.0e5, -4.1e5, -4.2e5},
		Height:  []float64{1204.5, 1206.1, 1207.0},
		Quality: []int8{0, 1, 0},
	}
	fname := filepath.Join(dir, "track.shp")
	mask := []bool{true, false, true}
	if err := WriteTrackShapefile(fname, track, mask); err != nil {
		t.Fatal(err)
	}

	d, err := shp.NewDecoder(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	var got []trackShape
	for {
		var rec trackShape
		if !d.DecodeRow(&rec) {
			break
		}
		got = append(got, rec)
	}
	if err := d.Error(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d records, want 2", len(got))
	}
	for i, j := range []int{0, 2} {
		if got[i].Point.X != track.X[j] || got[i].Point.Y != track.Y[j] {
			t.Errorf("record %d at (%g, %g), want (%g, %g)",
				i, got[i].Point.X, got[i].Point.Y, track.X[j], track.Y[j])
		}
		if got[i].Height != track.Height[j] {
			t.Errorf("record %d height = %g, want %g", i, got[i].Height, track.Height[j])
		}
	}
}

func TestWriteTrackShapefile_unprojected(t *testing.T) {
	track := &ATL06Track{
		Lat:    []float64{69.0},
		Lon:    []float64{-49.0},
		Height: []float64{1204.5},
	}
	if err := WriteTrackShapefile("nowhere.shp", track, nil); err == nil {
		t.Fatal("expected an error for an unprojected track")
	}
}

func TestWriteSeriesNetCDF(t *testing.T) {
	dir, err := ioutil.TempDir("", "icetrack")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	heights := []float64{
		1200, 1201, 1202,
		1300, math.NaN(), 1302,
	}
	times := []float64{
		0, 1e6, 2e6,
		0, 1e6, 2e6,
	}
	s, err := NewATL11Series(GranuleID{Product: ATL11, Track: 548, Subregion: 3},
		"pt2", []float64{69.0, 69.01}, []float64{-49.0, -49.0},
		[]int{3, 4, 5}, heights, times)
	if err != nil {
		t.Fatal(err)
	}

	fname := filepath.Join(dir, "series.nc")
	if err := WriteSeriesNetCDF(fname, s); err != nil {
		t.Fatal(err)
	}

	ff, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.Header.Lengths("h_corr"); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("h_corr dimensions = %v, want [2 3]", got)
	}

	r := f.Reader("h_corr", nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	got := buf.([]float64)
	for i := range heights {
		if math.IsNaN(heights[i]) != math.IsNaN(got[i]) {
			t.Errorf("h_corr[%d] = %g, want %g", i, got[i], heights[i])
		} else if !math.IsNaN(heights[i]) && got[i] != heights[i] {
			t.Errorf("h_corr[%d] = %g, want %g", i, got[i], heights[i])
		}
	}

	cr := f.Reader("cycle_number", nil, nil)
	cbuf := cr.Zero(-1)
	if _, err := cr.Read(cbuf); err != nil {
		t.Fatal(err)
	}
	if got := cbuf.([]int32); !reflect.DeepEqual(got, []int32{3, 4, 5}) {
		t.Errorf("cycle_number = %v, want [3 4 5]", got)
	}
}
