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
	"fmt"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/polarmodel/icetrack"
	"github.com/polarmodel/icetrack/cmr"
	"github.com/polarmodel/icetrack/earthdata"
)

// Search queries the granule catalog as specified by the
// configuration and returns the matching granules. Granules outside
// the configured subregion are filtered out after the catalog query,
// because the catalog cannot select on subregion directly.
func Search(ctx context.Context, cfg *viper.Viper) ([]cmr.Granule, error) {
	q := cmr.Query{
		ShortName: cfg.GetString("Product"),
		Version:   cfg.GetInt("Release"),
		Track:     cfg.GetInt("Track"),
		West:      cfg.GetFloat64("Bounds.West"),
		South:     cfg.GetFloat64("Bounds.South"),
		East:      cfg.GetFloat64("Bounds.East"),
		North:     cfg.GetFloat64("Bounds.North"),
	}
	var err error
	if q.Start, err = parseDate(cfg.GetString("StartDate")); err != nil {
		return nil, err
	}
	if q.End, err = parseDate(cfg.GetString("EndDate")); err != nil {
		return nil, err
	}

	client := &cmr.Client{URL: cfg.GetString("CatalogURL")}
	granules, err := client.Granules(ctx, q)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"product":  q.ShortName,
		"granules": len(granules),
	}).Info("catalog query finished")

	if sub := cfg.GetInt("Subregion"); sub != 0 {
		kept := granules[:0]
		for _, g := range granules {
			id, err := icetrack.ParseGranule(g.ID)
			if err != nil {
				logrus.WithField("granule", g.ID).Debug("unrecognized granule name")
				continue
			}
			if id.Subregion == sub {
				kept = append(kept, g)
			}
		}
		granules = kept
	}
	return granules, nil
}

// Fetch searches the catalog and downloads the matching granule
// files, returning the local paths. Already-downloaded files are
// kept as they are.
func Fetch(ctx context.Context, cfg *viper.Viper) ([]string, error) {
	granules, err := Search(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, g := range granules {
		u := g.DownloadURL()
		if u == "" {
			logrus.WithField("granule", g.ID).Warn("granule has no download link; skipping")
			continue
		}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("icetrack: no downloadable granules found")
	}
	d := &earthdata.Downloader{
		Dir:   os.ExpandEnv(cfg.GetString("DownloadDir")),
		Token: cfg.GetString("EarthdataToken"),
	}
	return d.FetchAll(ctx, urls)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("icetrack: invalid date %q; want a date like 2019-01-31", s)
	}
	return t, nil
}
