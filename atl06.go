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

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// ReadATL06 reads the land-ice segment arrays for one beam of an
// ATL06 granule. Heights are sanitized using the dataset's
// _FillValue attribute when present; a missing fill attribute is not
// an error (the field is loaded as-is). Missing position or height
// datasets are an error: the file is unusable and the caller should
// skip it.
func ReadATL06(path, beam string) (*ATL06Track, error) {
	id, err := ParseGranule(path)
	if err != nil {
		return nil, err
	}
	if id.Product != ATL06 {
		return nil, fmt.Errorf("icetrack: %s is %s, not ATL06", path, id.Product)
	}

	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icetrack: opening %s: %v", path, err)
	}
	defer f.Close()

	g, err := f.OpenGroup("/" + beam + "/land_ice_segments")
	if err != nil {
		return nil, fmt.Errorf("icetrack: %s: opening beam group %s: %v", path, beam, err)
	}

	t := &ATL06Track{ID: id, Beam: beam}
	if t.Lat, err = readFloat64(g, "latitude"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, beam, err)
	}
	if t.Lon, err = readFloat64(g, "longitude"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, beam, err)
	}
	if t.Height, err = readSanitized(g, "h_li"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, beam, err)
	}
	if t.Quality, err = readInt8(g, "atl06_quality_summary"); err != nil {
		return nil, fmt.Errorf("icetrack: %s %s: %v", path, beam, err)
	}

	n := len(t.Lat)
	if len(t.Lon) != n || len(t.Height) != n || len(t.Quality) != n {
		return nil, fmt.Errorf("icetrack: %s %s: ragged beam arrays (%d/%d/%d/%d)",
			path, beam, n, len(t.Lon), len(t.Height), len(t.Quality))
	}
	return t, nil
}

// readFloat64 reads a float64 dataset from g. A missing dataset is
// an error.
func readFloat64(g *hdf5.Group, name string) ([]float64, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	v, err := d.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	return v, nil
}

// readSanitized reads a float64 dataset and replaces its fill values
// with NaN. When the dataset has no _FillValue attribute the data is
// returned unsanitized.
func readSanitized(g *hdf5.Group, name string) ([]float64, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	v, err := d.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	if fill, ok := fillValue(d); ok {
		Sanitize(v, fill)
	}
	return v, nil
}

// readInt8 reads an integer dataset, such as a quality summary.
func readInt8(g *hdf5.Group, name string) ([]int8, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	v, err := d.ReadInt8()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	return v, nil
}

// fillValue returns the _FillValue attribute of d. ok is false when
// the attribute is absent or unreadable; callers proceed without
// sanitization in that case.
func fillValue(d *hdf5.Dataset) (fill float64, ok bool) {
	a := d.Attr("_FillValue")
	if a == nil {
		return 0, false
	}
	v, err := a.ReadFloat64()
	if err != nil || len(v) == 0 {
		return 0, false
	}
	return v[0], true
}
