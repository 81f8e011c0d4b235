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
	"path/filepath"
	"sort"
)

// A Collection accumulates loaded granule records over an analysis
// session, keyed by source filename (plus beam or pair group for
// along-track products). It is append-only and is passed explicitly
// between pipeline stages; there is no package-level state.
type Collection struct {
	Tracks map[string]*ATL06Track
	Series map[string]*ATL11Series
	Grids  map[string]*ATL15Grid
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		Tracks: make(map[string]*ATL06Track),
		Series: make(map[string]*ATL11Series),
		Grids:  make(map[string]*ATL15Grid),
	}
}

// LoadFile reads one granule file into the collection, dispatching
// on the product encoded in the filename. For along-track and
// repeat-track products every beam or pair group in groups is
// loaded; a nil groups loads all of them. The projector fills in
// projected positions; it may be nil to leave records geodetic.
func (c *Collection) LoadFile(path string, groups []string, p *Projector) error {
	id, err := ParseGranule(path)
	if err != nil {
		return err
	}
	switch id.Product {
	case ATL06:
		if groups == nil {
			groups = Beams
		}
		for _, beam := range groups {
			t, err := ReadATL06(path, beam)
			if err != nil {
				return err
			}
			if p != nil {
				if err := t.Project(p); err != nil {
					return err
				}
			}
			c.Tracks[key(path, beam)] = t
		}
	case ATL11:
		if groups == nil {
			groups = Pairs
		}
		for _, pair := range groups {
			s, err := ReadATL11(path, pair)
			if err != nil {
				return err
			}
			if p != nil {
				if err := s.Project(p); err != nil {
					return err
				}
			}
			c.Series[key(path, pair)] = s
		}
	case ATL15:
		g, err := ReadATL15(path)
		if err != nil {
			return err
		}
		c.Grids[filepath.Base(path)] = g
	default:
		return fmt.Errorf("icetrack: no reader for product %s (%s)", id.Product, path)
	}
	return nil
}

func key(path, group string) string {
	return filepath.Base(path) + "/" + group
}

// TrackKeys returns the keys of the loaded ATL06 records in sorted
// order, for deterministic iteration.
func (c *Collection) TrackKeys() []string {
	return sortedKeysTrack(c.Tracks)
}

// SeriesKeys returns the keys of the loaded ATL11 records in sorted
// order.
func (c *Collection) SeriesKeys() []string {
	o := make([]string, 0, len(c.Series))
	for k := range c.Series {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

func sortedKeysTrack(m map[string]*ATL06Track) []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
