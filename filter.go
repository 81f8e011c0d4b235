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

// FilterSubregion returns the identifiers in ids whose subregion code
// equals code, preserving their original order. A result with no
// matches is an empty slice, not an error.
func FilterSubregion(ids []GranuleID, code int) []GranuleID {
	var o []GranuleID
	for _, id := range ids {
		if id.Subregion == code {
			o = append(o, id)
		}
	}
	return o
}

// FilterTrack returns the identifiers in ids whose reference ground
// track equals track, preserving their original order.
func FilterTrack(ids []GranuleID, track int) []GranuleID {
	var o []GranuleID
	for _, id := range ids {
		if id.Track == track {
			o = append(o, id)
		}
	}
	return o
}

// FilterFilenames parses each filename in names and returns, in their
// original order, the names whose subregion code equals code. Names
// that fail to parse are skipped.
func FilterFilenames(names []string, code int) []string {
	var o []string
	for _, name := range names {
		id, err := ParseGranule(name)
		if err != nil {
			continue
		}
		if id.Subregion == code {
			o = append(o, name)
		}
	}
	return o
}
