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

// Package icetrack provides discovery, download, and analysis of
// ICESat-2 land-ice altimetry products (ATL03, ATL06, ATL11, and
// ATL15). The pipeline is: parse granule filenames into structured
// identifiers, filter to a target subregion or ground track, load the
// granule files, sanitize fill values, select the records inside a
// region of interest, and hand the result to the rendering or export
// layers.
package icetrack

// Version gives the current version of ICETrack.
const Version = "0.1.0"
