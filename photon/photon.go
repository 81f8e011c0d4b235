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

// Package photon requests photon-level processing of geolocated
// photon granules from a remote processing service.
package photon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff"
	"github.com/ctessum/geom"
)

// Surface types the processing service can fit ground tracks to.
const (
	SurfaceLand    = 0
	SurfaceOcean   = 1
	SurfaceSeaIce  = 2
	SurfaceLandIce = 3
	SurfaceInland  = 4
)

// A Request describes one processing job: photons from a single
// granule are selected by region and confidence and aggregated into
// height segments server-side.
type Request struct {
	// Granule is the name of the photon granule to process.
	Granule string `json:"granule"`

	// Polygon is the region of interest in geographic coordinates.
	// The service only returns segments inside it.
	Polygon []geom.Point `json:"polygon"`

	// SurfaceType selects the surface-fit algorithm (one of the
	// Surface constants).
	SurfaceType int `json:"srt"`

	// Confidence is the minimum photon confidence level (0-4) to
	// include in the fit.
	Confidence int `json:"cnf"`

	// SegmentLength is the along-track aggregation length in meters.
	SegmentLength float64 `json:"len"`

	// Track restricts processing to one ground track pair (1-3);
	// zero processes all pairs.
	Track int `json:"track,omitempty"`
}

// A Table holds the segments returned by the processing service as
// parallel slices.
type Table struct {
	Lat        []float64 `json:"latitude"`
	Lon        []float64 `json:"longitude"`
	Height     []float64 `json:"height"`
	Confidence []int     `json:"confidence"`
	// Time is seconds since the mission epoch.
	Time []float64 `json:"delta_time"`
}

// Len returns the number of segments in the table.
func (t *Table) Len() int { return len(t.Lat) }

// check verifies that all columns have the same length.
func (t *Table) check() error {
	n := len(t.Lat)
	for name, l := range map[string]int{
		"longitude":  len(t.Lon),
		"height":     len(t.Height),
		"confidence": len(t.Confidence),
		"delta_time": len(t.Time),
	} {
		if l != n {
			return fmt.Errorf("photon: column %s has %d rows; latitude has %d", name, l, n)
		}
	}
	return nil
}

// Client submits processing jobs to a photon processing service.
type Client struct {
	// URL is the service endpoint.
	URL string

	// HTTPClient is the client used for requests. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client
}

// Process submits r and waits for the resulting segment table.
// Transient server errors are retried; malformed requests are not.
func (c *Client) Process(ctx context.Context, r Request) (*Table, error) {
	if len(r.Polygon) < 3 {
		return nil, fmt.Errorf("photon: polygon has %d vertices; need at least 3", len(r.Polygon))
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("photon: encoding request: %v", err)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var table Table
	err = backoff.Retry(
		func() error {
			req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(body))
			if err != nil {
				return backoff.Permanent(err)
			}
			req = req.WithContext(ctx)
			req.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				msg, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
				err := fmt.Errorf("photon: processing %s: status %s: %s",
					r.Granule, resp.Status, strings.TrimSpace(string(msg)))
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return backoff.Permanent(err)
				}
				return err
			}
			table = Table{}
			if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
				return backoff.Permanent(fmt.Errorf("photon: decoding response: %v", err))
			}
			return nil
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
	)
	if err != nil {
		return nil, err
	}
	if err := table.check(); err != nil {
		return nil, err
	}
	return &table, nil
}
