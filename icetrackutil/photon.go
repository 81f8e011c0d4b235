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
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/polarmodel/icetrack"
	"github.com/polarmodel/icetrack/photon"
)

// ProcessPhotons submits the named geolocated-photon granule to the
// remote processing service and writes the returned segment table to
// OutputFile as CSV. It returns the number of segments written.
func ProcessPhotons(ctx context.Context, cfg *viper.Viper, granule string) (int, error) {
	endpoint := cfg.GetString("PhotonURL")
	if endpoint == "" {
		return 0, fmt.Errorf("icetrack: PhotonURL is not set")
	}
	polygon, err := photonPolygon(cfg)
	if err != nil {
		return 0, err
	}

	client := &photon.Client{URL: endpoint}
	table, err := client.Process(ctx, photon.Request{
		Granule:       filepath.Base(granule),
		Polygon:       polygon,
		SurfaceType:   cfg.GetInt("SurfaceType"),
		Confidence:    cfg.GetInt("Confidence"),
		SegmentLength: cfg.GetFloat64("SegmentLength"),
		Track:         cfg.GetInt("Track"),
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"granule":  filepath.Base(granule),
		"segments": table.Len(),
	}).Info("photon processing finished")

	out := os.ExpandEnv(cfg.GetString("OutputFile"))
	if err := writeTableCSV(out, table); err != nil {
		return 0, err
	}
	return table.Len(), nil
}

// photonPolygon builds the processing region: the region of interest
// unprojected to geographic coordinates if one is configured, and
// the geographic Bounds edges otherwise.
func photonPolygon(cfg *viper.Viper) ([]geom.Point, error) {
	region, err := regionFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if !region.Empty() {
		p, err := icetrack.NewProjector(cfg.GetString("Proj"))
		if err != nil {
			return nil, err
		}
		lon, lat, err := p.Unproject(
			[]float64{region.Xmin, region.Xmax, region.Xmax, region.Xmin},
			[]float64{region.Ymin, region.Ymin, region.Ymax, region.Ymax})
		if err != nil {
			return nil, err
		}
		polygon := make([]geom.Point, len(lon))
		for i := range lon {
			polygon[i] = geom.Point{X: lon[i], Y: lat[i]}
		}
		return polygon, nil
	}

	w, s := cfg.GetFloat64("Bounds.West"), cfg.GetFloat64("Bounds.South")
	e, n := cfg.GetFloat64("Bounds.East"), cfg.GetFloat64("Bounds.North")
	if w == e || s == n {
		return nil, fmt.Errorf("icetrack: photon processing needs a region of interest or geographic bounds")
	}
	return []geom.Point{
		{X: w, Y: s},
		{X: e, Y: s},
		{X: e, Y: n},
		{X: w, Y: n},
	}, nil
}

func writeTableCSV(path string, t *photon.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("icetrack: creating %s: %v", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"latitude", "longitude", "height", "confidence", "delta_time"}); err != nil {
		return fmt.Errorf("icetrack: writing %s: %v", path, err)
	}
	for i := 0; i < t.Len(); i++ {
		rec := []string{
			strconv.FormatFloat(t.Lat[i], 'g', -1, 64),
			strconv.FormatFloat(t.Lon[i], 'g', -1, 64),
			strconv.FormatFloat(t.Height[i], 'g', -1, 64),
			strconv.Itoa(t.Confidence[i]),
			strconv.FormatFloat(t.Time[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("icetrack: writing %s: %v", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("icetrack: writing %s: %v", path, err)
	}
	return f.Close()
}
