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

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/polarmodel/icetrack"
)

// Export converts the granule at path into OutputFile: ATL06 tracks
// become a point shapefile, ATL11 series become a NetCDF file.
func Export(cfg *viper.Viper, path string) error {
	id, err := icetrack.ParseGranule(path)
	if err != nil {
		return err
	}
	out := os.ExpandEnv(cfg.GetString("OutputFile"))

	switch id.Product {
	case icetrack.ATL06:
		t, mask, err := loadTrack(cfg, path)
		if err != nil {
			return err
		}
		if err := icetrack.WriteTrackShapefile(out, t, mask); err != nil {
			return err
		}
	case icetrack.ATL11:
		s, err := icetrack.ReadATL11(path, firstGroup(cfg, icetrack.Pairs))
		if err != nil {
			return err
		}
		if err := icetrack.WriteSeriesNetCDF(out, s); err != nil {
			return err
		}
	default:
		return fmt.Errorf("icetrack: cannot export a %s file", id.Product)
	}
	logrus.WithFields(logrus.Fields{
		"granule": id.String(),
		"file":    out,
	}).Info("export written")
	return nil
}
