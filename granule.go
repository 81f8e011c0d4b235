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
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// Product identifies an ICESat-2 data product family.
type Product string

// The product families handled by this package.
const (
	ATL03 Product = "ATL03" // global geolocated photon heights
	ATL06 Product = "ATL06" // land-ice height segments
	ATL11 Product = "ATL11" // slope-corrected repeat-track heights
	ATL15 Product = "ATL15" // gridded land-ice height change
)

// ErrFormatMismatch is returned by ParseGranule when a filename does
// not follow any recognized product naming pattern. Callers are
// expected to skip the offending file rather than abort a batch.
var ErrFormatMismatch = errors.New("icetrack: granule filename format mismatch")

// GranuleID holds the identifiers embedded in a granule filename.
// It is fully determined by the filename; ParseGranule is a pure
// function.
type GranuleID struct {
	Product Product

	// Track is the reference ground track number. It is zero for
	// gridded products, which cover whole regions.
	Track int

	// Subregion is the orbital subregion code of along-track and
	// repeat-track products.
	Subregion int

	// Region is the two-letter region code of gridded products
	// (for example "GL" for Greenland or "AA" for Antarctica).
	Region string

	// CycleStart and CycleEnd give the range of repeat cycles the
	// granule covers. Single-cycle products have
	// CycleStart == CycleEnd.
	CycleStart, CycleEnd int

	// Resolution is the grid resolution field of gridded products
	// (for example "01km").
	Resolution string

	// Release and Version are used for display and bookkeeping only.
	Release int
	Version int

	// StartTime is the acquisition start time embedded in
	// along-track product filenames. It is the zero time for
	// products whose filenames carry no timestamp.
	StartTime time.Time
}

// String returns the identifier in a compact human-readable form.
func (id GranuleID) String() string {
	switch id.Product {
	case ATL15:
		return fmt.Sprintf("%s %s cycles %02d-%02d %s r%03d v%02d",
			id.Product, id.Region, id.CycleStart, id.CycleEnd, id.Resolution, id.Release, id.Version)
	case ATL11:
		return fmt.Sprintf("%s rgt %04d region %02d cycles %02d-%02d r%03d v%02d",
			id.Product, id.Track, id.Subregion, id.CycleStart, id.CycleEnd, id.Release, id.Version)
	default:
		return fmt.Sprintf("%s rgt %04d cycle %02d segment %02d r%03d v%02d",
			id.Product, id.Track, id.CycleStart, id.Subregion, id.Release, id.Version)
	}
}

// The three fixed filename patterns. Along-track products carry an
// acquisition timestamp and a single cycle; repeat-track products
// carry a cycle range; gridded products carry a region code and grid
// resolution instead of a track.
var (
	alongTrackRE  = regexp.MustCompile(`^(ATL0[36])_(\d{14})_(\d{4})(\d{2})(\d{2})_(\d{3})_(\d{2})\.h5$`)
	repeatTrackRE = regexp.MustCompile(`^(ATL11)_(\d{4})(\d{2})_(\d{2})(\d{2})_(\d{3})_(\d{2})\.h5$`)
	griddedRE     = regexp.MustCompile(`^(ATL15)_([A-Z]{2})_(\d{2})(\d{2})_(\d{2}km)_(\d{3})_(\d{2})\.nc$`)
)

// ParseGranule extracts the identifiers embedded in an ICESat-2
// granule filename. The directory part of the path, if any, is
// ignored. Filenames that do not match any of the recognized
// patterns yield an error wrapping ErrFormatMismatch and never a
// partially populated identifier.
func ParseGranule(filename string) (GranuleID, error) {
	name := filepath.Base(filename)
	if m := alongTrackRE.FindStringSubmatch(name); m != nil {
		t, err := time.Parse("20060102150405", m[2])
		if err != nil {
			return GranuleID{}, fmt.Errorf("%w: %s: bad timestamp: %v", ErrFormatMismatch, name, err)
		}
		cycle := atoi(m[4])
		return GranuleID{
			Product:    Product(m[1]),
			StartTime:  t,
			Track:      atoi(m[3]),
			CycleStart: cycle,
			CycleEnd:   cycle,
			Subregion:  atoi(m[5]),
			Release:    atoi(m[6]),
			Version:    atoi(m[7]),
		}, nil
	}
	if m := repeatTrackRE.FindStringSubmatch(name); m != nil {
		return GranuleID{
			Product:    Product(m[1]),
			Track:      atoi(m[2]),
			Subregion:  atoi(m[3]),
			CycleStart: atoi(m[4]),
			CycleEnd:   atoi(m[5]),
			Release:    atoi(m[6]),
			Version:    atoi(m[7]),
		}, nil
	}
	if m := griddedRE.FindStringSubmatch(name); m != nil {
		return GranuleID{
			Product:    Product(m[1]),
			Region:     m[2],
			CycleStart: atoi(m[3]),
			CycleEnd:   atoi(m[4]),
			Resolution: m[5],
			Release:    atoi(m[6]),
			Version:    atoi(m[7]),
		}, nil
	}
	return GranuleID{}, fmt.Errorf("%w: %s", ErrFormatMismatch, name)
}

// atoi converts a digits-only string, as guaranteed by the filename
// patterns, to an int.
func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
