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

// Package cmr queries NASA's Common Metadata Repository for
// satellite data granules.
package cmr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ctessum/requestcache"
)

// DefaultURL is the production CMR granule search endpoint.
const DefaultURL = "https://cmr.earthdata.nasa.gov/search/granules.json"

// Client searches the CMR granule catalog. The zero value is ready
// to use and queries the production endpoint.
type Client struct {
	// URL is the granule search endpoint. If empty, DefaultURL is used.
	URL string

	// HTTPClient is the client used for requests. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client

	// PageSize is the number of granules requested per page.
	// The default is 100.
	PageSize int

	// CacheSize specifies the number of query results to hold in the
	// memory cache. The default is 100.
	CacheSize int

	cache     *requestcache.Cache
	cacheInit sync.Once
}

// Query specifies the granules to search for. Zero-valued fields are
// left out of the search.
type Query struct {
	// ShortName is the data product short name, e.g. "ATL06".
	ShortName string

	// Version is the data release number, e.g. 6 for release "006".
	Version int

	// Track restricts results to a single reference ground track.
	Track int

	// West, South, East, and North bound the search region in
	// geographic coordinates (degrees).
	West, South, East, North float64

	// Start and End bound the granules' acquisition times.
	Start, End time.Time
}

func (q Query) spatial() bool {
	return q.West != 0 || q.South != 0 || q.East != 0 || q.North != 0
}

// key returns a string that uniquely identifies the query for caching.
func (q Query) key() string {
	return fmt.Sprintf("%s_%d_%d_%g_%g_%g_%g_%d_%d", q.ShortName, q.Version,
		q.Track, q.West, q.South, q.East, q.North,
		q.Start.Unix(), q.End.Unix())
}

// A Granule is one catalog entry returned by a search.
type Granule struct {
	// ID is the producer granule ID, which is the granule's filename.
	ID string `json:"producer_granule_id"`

	// Size is the granule size in megabytes.
	Size string `json:"granule_size"`

	// TimeStart is the granule's acquisition start time in RFC 3339
	// format.
	TimeStart string `json:"time_start"`

	// Links are the URLs associated with the granule.
	Links []Link `json:"links"`
}

// A Link relates a granule to a URL.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// DownloadURL returns the URL that the granule data file can be
// fetched from, or an empty string if the catalog entry has none.
func (g *Granule) DownloadURL() string {
	for _, l := range g.Links {
		if strings.HasSuffix(l.Rel, "/data#") && !strings.HasSuffix(l.Href, ".xml") {
			return l.Href
		}
	}
	return ""
}

type searchPage struct {
	Feed struct {
		Entry []Granule `json:"entry"`
	} `json:"feed"`
}

// Granules returns the catalog entries matching q, in the order the
// catalog returns them. Results are cached in memory, so repeating a
// query is cheap.
func (c *Client) Granules(ctx context.Context, q Query) ([]Granule, error) {
	c.cacheInit.Do(func() {
		size := c.CacheSize
		if size == 0 {
			size = 100
		}
		c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return c.search(ctx, request.(Query))
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(size))
	})
	req := c.cache.NewRequest(ctx, q, q.key())
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.([]Granule), nil
}

// search pages through the catalog until a short page signals the
// end of the results.
func (c *Client) search(ctx context.Context, q Query) ([]Granule, error) {
	pageSize := c.PageSize
	if pageSize == 0 {
		pageSize = 100
	}
	var granules []Granule
	for pageNum := 1; ; pageNum++ {
		page, err := c.fetchPage(ctx, q, pageSize, pageNum)
		if err != nil {
			return nil, err
		}
		granules = append(granules, page...)
		if len(page) < pageSize {
			return granules, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, q Query, pageSize, pageNum int) ([]Granule, error) {
	params := url.Values{}
	params.Set("short_name", q.ShortName)
	params.Set("page_size", fmt.Sprint(pageSize))
	params.Set("page_num", fmt.Sprint(pageNum))
	if q.Version != 0 {
		params.Set("version", fmt.Sprintf("%03d", q.Version))
	}
	if q.Track != 0 {
		// The track number is the leading four digits of the granule
		// name's orbit field. The field is eight characters in the
		// along-track products (track, cycle, subregion) but six in
		// ATL11, which carries no cycle digits.
		pattern := fmt.Sprintf("*_%04d????_*", q.Track)
		if q.ShortName == "ATL11" {
			pattern = fmt.Sprintf("*_%04d??_*", q.Track)
		}
		params.Set("options[readable_granule_name][pattern]", "true")
		params.Set("readable_granule_name", pattern)
	}
	if q.spatial() {
		params.Set("bounding_box", fmt.Sprintf("%g,%g,%g,%g",
			q.West, q.South, q.East, q.North))
	}
	if !q.Start.IsZero() || !q.End.IsZero() {
		var start, end string
		if !q.Start.IsZero() {
			start = q.Start.UTC().Format(time.RFC3339)
		}
		if !q.End.IsZero() {
			end = q.End.UTC().Format(time.RFC3339)
		}
		params.Set("temporal", start+","+end)
	}

	endpoint := c.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var page searchPage
	err := backoff.Retry(
		func() error {
			req, err := http.NewRequest(http.MethodGet, endpoint+"?"+params.Encode(), nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			req = req.WithContext(ctx)
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
				err := fmt.Errorf("cmr: searching %s: status %s: %s",
					q.ShortName, resp.Status, strings.TrimSpace(string(body)))
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return backoff.Permanent(err)
				}
				return err
			}
			page = searchPage{}
			if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
				return backoff.Permanent(fmt.Errorf("cmr: decoding response: %v", err))
			}
			return nil
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
	)
	if err != nil {
		return nil, err
	}
	return page.Feed.Entry, nil
}
