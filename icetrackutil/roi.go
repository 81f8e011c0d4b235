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

package icetrackutil

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"

	"github.com/polarmodel/icetrack"
)

// LoadRegions reads named regions of interest from a TOML file of
// the form:
//
//	[regions.jakobshavn]
//	xmin = -230000.0
//	xmax = -140000.0
//	ymin = -2330000.0
//	ymax = -2260000.0
func LoadRegions(path string) (map[string]icetrack.Region, error) {
	var f struct {
		Regions map[string]icetrack.Region `toml:"regions"`
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("icetrack: reading region file %s: %v", path, err)
	}
	return f.Regions, nil
}

// regionFromConfig builds the region of interest from the
// configuration: a named region from Region.File if Region.Name is
// set, and the Region.Xmin etc. edges otherwise. The returned region
// is empty when neither is configured.
func regionFromConfig(cfg *viper.Viper) (icetrack.Region, error) {
	name := cfg.GetString("Region.Name")
	if name == "" {
		return icetrack.Region{
			Xmin: cfg.GetFloat64("Region.Xmin"),
			Xmax: cfg.GetFloat64("Region.Xmax"),
			Ymin: cfg.GetFloat64("Region.Ymin"),
			Ymax: cfg.GetFloat64("Region.Ymax"),
		}, nil
	}
	path := cfg.GetString("Region.File")
	if path == "" {
		return icetrack.Region{}, fmt.Errorf("icetrack: Region.Name is set but Region.File is not")
	}
	regions, err := LoadRegions(os.ExpandEnv(path))
	if err != nil {
		return icetrack.Region{}, err
	}
	r, ok := regions[name]
	if !ok {
		names := make([]string, 0, len(regions))
		for n := range regions {
			names = append(names, n)
		}
		sort.Strings(names)
		return icetrack.Region{}, fmt.Errorf("icetrack: region %q is not in %s; have %v", name, path, names)
	}
	return r, nil
}
