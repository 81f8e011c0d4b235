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
	"reflect"
	"testing"
)

func TestFilterSubregion(t *testing.T) {
	ids := []GranuleID{
		{Product: ATL11, Track: 10, Subregion: 3},
		{Product: ATL11, Track: 11, Subregion: 4},
		{Product: ATL11, Track: 12, Subregion: 3},
	}
	got := FilterSubregion(ids, 3)
	want := []GranuleID{ids[0], ids[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got := FilterSubregion(ids, 99); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}

	// Filtering an already-filtered sequence is a no-op.
	again := FilterSubregion(got, 3)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("idempotence: got %+v, want %+v", again, got)
	}
}

func TestFilterTrack(t *testing.T) {
	ids := []GranuleID{
		{Product: ATL06, Track: 548, Subregion: 3},
		{Product: ATL06, Track: 549, Subregion: 3},
		{Product: ATL06, Track: 548, Subregion: 4},
	}
	got := FilterTrack(ids, 548)
	want := []GranuleID{ids[0], ids[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestFilterFilenames mimics filtering a catalog response: 55 ATL11
// granule names alternating between subregions 3 and 4, with a few
// unparseable entries mixed in.
func TestFilterFilenames(t *testing.T) {
	var names, want []string
	for i := 0; i < 55; i++ {
		region := 3
		if i%2 == 1 {
			region = 4
		}
		name := fmt.Sprintf("ATL11_%04d%02d_0311_004_01.h5", i+1, region)
		names = append(names, name)
		if region == 3 {
			want = append(want, name)
		}
	}
	names = append(names, "ATL11_browse.png", "checksums.md5")

	got := FilterFilenames(names, 3)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %d names, want %d; first mismatch: %v vs %v",
			len(got), len(want), got, want)
	}
	if len(got) >= len(names) {
		t.Error("filtered list is not a strict sub-list")
	}
	for _, name := range got {
		id, err := ParseGranule(name)
		if err != nil {
			t.Fatal(err)
		}
		if id.Subregion == 4 {
			t.Errorf("%s: subregion 4 entry survived the filter", name)
		}
	}
}
