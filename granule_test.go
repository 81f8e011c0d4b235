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
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseGranule(t *testing.T) {
	tests := []struct {
		name string
		want GranuleID
	}{
		{
			name: "ATL11_054803_0311_004_01.h5",
			want: GranuleID{
				Product:    ATL11,
				Track:      548,
				Subregion:  3,
				CycleStart: 3,
				CycleEnd:   11,
				Release:    4,
				Version:    1,
			},
		},
		{
			name: "ATL06_20190223232535_08780212_006_02.h5",
			want: GranuleID{
				Product:    ATL06,
				StartTime:  time.Date(2019, 2, 23, 23, 25, 35, 0, time.UTC),
				Track:      878,
				CycleStart: 2,
				CycleEnd:   2,
				Subregion:  12,
				Release:    6,
				Version:    2,
			},
		},
		{
			name: "ATL03_20181214194017_11790102_006_02.h5",
			want: GranuleID{
				Product:    ATL03,
				StartTime:  time.Date(2018, 12, 14, 19, 40, 17, 0, time.UTC),
				Track:      1179,
				CycleStart: 1,
				CycleEnd:   1,
				Subregion:  2,
				Release:    6,
				Version:    2,
			},
		},
		{
			name: "ATL15_GL_0314_01km_003_01.nc",
			want: GranuleID{
				Product:    ATL15,
				Region:     "GL",
				CycleStart: 3,
				CycleEnd:   14,
				Resolution: "01km",
				Release:    3,
				Version:    1,
			},
		},
	}
	for _, test := range tests {
		got, err := ParseGranule(test.name)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %+v, want %+v", test.name, got, test.want)
		}
	}
}

func TestParseGranuleWithDirectory(t *testing.T) {
	got, err := ParseGranule("/data/icesat2/ATL11_054803_0311_004_01.h5")
	if err != nil {
		t.Fatal(err)
	}
	if got.Track != 548 || got.Subregion != 3 {
		t.Errorf("got track %d subregion %d, want 548 and 3", got.Track, got.Subregion)
	}
}

func TestParseGranuleMismatch(t *testing.T) {
	bad := []string{
		"",
		"readme.txt",
		"ATL11_054803_0311_004_01.nc",    // wrong extension for the pattern
		"ATL11_54803_0311_004_01.h5",     // track field too short
		"ATL06_2019022323253_08780212_006_02.h5", // 13-digit timestamp
		"ATL99_20190223232535_08780212_006_02.h5",
		"ATL15_GRN_0314_01km_003_01.nc", // three-letter region
	}
	for _, name := range bad {
		got, err := ParseGranule(name)
		if err == nil {
			t.Errorf("%q: expected error, got %+v", name, got)
			continue
		}
		if !errors.Is(err, ErrFormatMismatch) {
			t.Errorf("%q: error %v does not wrap ErrFormatMismatch", name, err)
		}
		if !reflect.DeepEqual(got, GranuleID{}) {
			t.Errorf("%q: mismatch returned partially populated identifier %+v", name, got)
		}
	}
}
