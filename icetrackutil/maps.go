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
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cast"

	"github.com/polarmodel/icetrack"
	"github.com/polarmodel/icetrack/render"
)

// DrawMap draws a map of the granule at path into OutputFile.
// ATL06 files are drawn as colored track points, ATL15 files as a
// height-change raster.
func DrawMap(cfg *viper.Viper, path string) error {
	id, err := icetrack.ParseGranule(path)
	if err != nil {
		return err
	}
	out := os.ExpandEnv(cfg.GetString("OutputFile"))
	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("icetrack: creating %s: %v", out, err)
	}
	defer w.Close()

	switch id.Product {
	case icetrack.ATL06:
		t, mask, err := loadTrack(cfg, path)
		if err != nil {
			return err
		}
		if err := render.TrackMap(w, t, mask, cfg.GetInt("MapWidth")); err != nil {
			return err
		}
	case icetrack.ATL15:
		g, err := icetrack.ReadATL15(path)
		if err != nil {
			return err
		}
		if err := render.GridMap(w, g, cfg.GetInt("Layer")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("icetrack: cannot draw a map of a %s file", id.Product)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("icetrack: writing %s: %v", out, err)
	}
	logrus.WithField("file", out).Info("map written")
	return maybeShow(cfg, out)
}

// DrawSeries plots the height history of the reference point nearest
// to the position given by At into OutputFile.
func DrawSeries(cfg *viper.Viper, path string) error {
	pair := firstGroup(cfg, icetrack.Pairs)
	s, err := icetrack.ReadATL11(path, pair)
	if err != nil {
		return err
	}
	p, err := icetrack.NewProjector(cfg.GetString("Proj"))
	if err != nil {
		return err
	}
	if err := s.Project(p); err != nil {
		return err
	}

	at := cfg.GetStringSlice("At")
	if len(at) != 2 {
		return fmt.Errorf("icetrack: At needs two values, x and y; got %v", at)
	}
	x, err := cast.ToFloat64E(at[0])
	if err != nil {
		return fmt.Errorf("icetrack: invalid At position: %v", err)
	}
	y, err := cast.ToFloat64E(at[1])
	if err != nil {
		return fmt.Errorf("icetrack: invalid At position: %v", err)
	}
	i := s.Nearest(x, y, cfg.GetFloat64("SearchRadius"))
	if i < 0 {
		return fmt.Errorf("icetrack: no reference point within %g of (%g, %g)",
			cfg.GetFloat64("SearchRadius"), x, y)
	}
	logrus.WithFields(logrus.Fields{
		"point": i,
		"lat":   s.Lat[i],
		"lon":   s.Lon[i],
	}).Info("plotting reference point")

	out := os.ExpandEnv(cfg.GetString("OutputFile"))
	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("icetrack: creating %s: %v", out, err)
	}
	defer w.Close()
	if err := render.SeriesPlot(w, s, i); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("icetrack: writing %s: %v", out, err)
	}
	return maybeShow(cfg, out)
}

// loadTrack reads one beam of an ATL06 granule, projects it, and
// builds its selection mask from the region of interest and the
// quality summary.
func loadTrack(cfg *viper.Viper, path string) (*icetrack.ATL06Track, []bool, error) {
	beam := firstGroup(cfg, icetrack.Beams)
	t, err := icetrack.ReadATL06(path, beam)
	if err != nil {
		return nil, nil, err
	}
	p, err := icetrack.NewProjector(cfg.GetString("Proj"))
	if err != nil {
		return nil, nil, err
	}
	if err := t.Project(p); err != nil {
		return nil, nil, err
	}
	region, err := regionFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	var mask []bool
	if region.Empty() {
		mask = t.QualityMask()
	} else if mask, err = t.Select(region); err != nil {
		return nil, nil, err
	}
	return t, mask, nil
}

// firstGroup returns the first configured group, or the first
// default group if none is configured.
func firstGroup(cfg *viper.Viper, defaults []string) string {
	if groups := cfg.GetStringSlice("Groups"); len(groups) != 0 {
		return groups[0]
	}
	return defaults[0]
}

func maybeShow(cfg *viper.Viper, path string) error {
	if !cfg.GetBool("show") {
		return nil
	}
	return open.Run(path)
}
