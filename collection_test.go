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
	"reflect"
	"testing"
)

func TestCollectionKeys(t *testing.T) {
	c := NewCollection()
	c.Tracks["ATL06_20190201000000_05480312_006_01.h5/gt2l"] = &ATL06Track{}
	c.Tracks["ATL06_20190101000000_05480312_006_01.h5/gt1l"] = &ATL06Track{}
	c.Tracks["ATL06_20190101000000_05480312_006_01.h5/gt3r"] = &ATL06Track{}
	c.Series["ATL11_054803_0311_004_01.h5/pt2"] = &ATL11Series{}
	c.Series["ATL11_054803_0311_004_01.h5/pt1"] = &ATL11Series{}

	wantTracks := []string{
		"ATL06_20190101000000_05480312_006_01.h5/gt1l",
		"ATL06_20190101000000_05480312_006_01.h5/gt3r",
		"ATL06_20190201000000_05480312_006_01.h5/gt2l",
	}
	if got := c.TrackKeys(); !reflect.DeepEqual(got, wantTracks) {
		t.Errorf("TrackKeys() = %v, want %v", got, wantTracks)
	}
	wantSeries := []string{
		"ATL11_054803_0311_004_01.h5/pt1",
		"ATL11_054803_0311_004_01.h5/pt2",
	}
	if got := c.SeriesKeys(); !reflect.DeepEqual(got, wantSeries) {
		t.Errorf("SeriesKeys() = %v, want %v", got, wantSeries)
	}
}

func TestLoadFile_badName(t *testing.T) {
	c := NewCollection()
	if err := c.LoadFile("notes.txt", nil, nil); err == nil {
		t.Fatal("expected an error for an unrecognized filename")
	}
	if len(c.Tracks)+len(c.Series)+len(c.Grids) != 0 {
		t.Error("collection modified by a failed load")
	}
}
