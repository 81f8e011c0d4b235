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
	"strings"

	"github.com/ctessum/geom/proj"
)

// Coordinate reference systems used by the ICESat-2 land-ice
// products. Granule positions are geodetic; maps and regions of
// interest are in the polar stereographic system matching the
// hemisphere of the data.
const (
	// LonLatCRS is the geodetic coordinate reference of granule
	// positions.
	LonLatCRS = "+proj=longlat +datum=WGS84 +no_defs"

	// NorthPolarCRS is the NSIDC Sea Ice Polar Stereographic North
	// system (EPSG:3413) used for Greenland and Arctic products.
	NorthPolarCRS = "+proj=stere +lat_0=90 +lat_ts=70 +lon_0=-45 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"

	// SouthPolarCRS is the Antarctic Polar Stereographic system
	// (EPSG:3031) used for Antarctic products.
	SouthPolarCRS = "+proj=stere +lat_0=-90 +lat_ts=-71 +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
)

// A Projector converts between geodetic and projected coordinates
// for a fixed pair of reference systems. It is safe for sequential
// reuse across many granules.
type Projector struct {
	forward, inverse proj.Transformer
}

// NewProjector creates a Projector from geodetic coordinates to the
// projected reference system given by the Proj4 string dst.
func NewProjector(dst string) (*Projector, error) {
	src, err := proj.Parse(LonLatCRS)
	if err != nil {
		return nil, fmt.Errorf("icetrack: parsing geodetic CRS: %v", err)
	}
	dstSR, err := proj.Parse(dst)
	if err != nil {
		return nil, fmt.Errorf("icetrack: parsing projected CRS %q: %v", dst, err)
	}
	// The proj package has no stereographic transformer, so the
	// polar systems are handled here. Both sides share the WGS84
	// datum, so no datum shift applies.
	if strings.ToLower(dstSR.Name) == "stere" {
		fwd, inv, err := stereographic(dstSR)
		if err != nil {
			return nil, fmt.Errorf("icetrack: creating stereographic transform: %v", err)
		}
		return &Projector{
			forward: func(lon, lat float64) (float64, float64, error) {
				return fwd(lon*deg2rad, lat*deg2rad)
			},
			inverse: func(x, y float64) (float64, float64, error) {
				lon, lat, err := inv(x, y)
				return lon * rad2deg, lat * rad2deg, err
			},
		}, nil
	}
	forward, err := src.NewTransform(dstSR)
	if err != nil {
		return nil, fmt.Errorf("icetrack: creating forward transform: %v", err)
	}
	inverse, err := dstSR.NewTransform(src)
	if err != nil {
		return nil, fmt.Errorf("icetrack: creating inverse transform: %v", err)
	}
	return &Projector{forward: forward, inverse: inverse}, nil
}

// ProjectPoint converts one geodetic position to projected
// coordinates.
func (p *Projector) ProjectPoint(lon, lat float64) (x, y float64, err error) {
	return p.forward(lon, lat)
}

// Project converts parallel geodetic coordinate arrays to projected
// coordinates. The inputs are not modified.
func (p *Projector) Project(lon, lat []float64) (x, y []float64, err error) {
	if len(lon) != len(lat) {
		return nil, nil, fmt.Errorf("icetrack: coordinate length mismatch: %d != %d", len(lon), len(lat))
	}
	x = make([]float64, len(lon))
	y = make([]float64, len(lon))
	for i := range lon {
		x[i], y[i], err = p.forward(lon[i], lat[i])
		if err != nil {
			return nil, nil, fmt.Errorf("icetrack: projecting point %d (%g, %g): %v", i, lon[i], lat[i], err)
		}
	}
	return x, y, nil
}

// Unproject converts parallel projected coordinate arrays back to
// geodetic coordinates.
func (p *Projector) Unproject(x, y []float64) (lon, lat []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("icetrack: coordinate length mismatch: %d != %d", len(x), len(y))
	}
	lon = make([]float64, len(x))
	lat = make([]float64, len(x))
	for i := range x {
		lon[i], lat[i], err = p.inverse(x[i], y[i])
		if err != nil {
			return nil, nil, fmt.Errorf("icetrack: unprojecting point %d (%g, %g): %v", i, x[i], y[i], err)
		}
	}
	return lon, lat, nil
}
