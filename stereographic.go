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
	"math"

	"github.com/ctessum/geom/proj"
)

const (
	epsln  = 1.0e-10
	halfPi = math.Pi / 2
	twoPi  = math.Pi * 2
	// sPi is slightly greater than π so longitudes that drift past
	// ±180° by floating-point error keep their sign.
	sPi = 3.14159265359

	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// stereographic builds forward and inverse transformers for a
// stereographic projection from a parsed spatial reference. The
// transformers work in radians on the geodetic side and meters on
// the projected side. Equations follow Snyder (1987) chapter 21 as
// implemented in proj4js.
func stereographic(sr *proj.SR) (forward, inverse proj.Transformer, err error) {
	if math.IsNaN(sr.K0) {
		sr.K0 = 1
	}
	if math.IsNaN(sr.X0) {
		sr.X0 = 0
	}
	if math.IsNaN(sr.Y0) {
		sr.Y0 = 0
	}

	sinlat0 := math.Sin(sr.Lat0)
	coslat0 := math.Cos(sr.Lat0)
	sphere := sr.Es < epsln
	con := 1.0
	if sr.Lat0 < 0 {
		con = -1
	}

	var cons, ms1, chi0, sinchi0, coschi0 float64
	if sphere {
		if sr.K0 == 1 && !math.IsNaN(sr.LatTS) && math.Abs(coslat0) <= epsln {
			sr.K0 = 0.5 * (1 + sign(sr.Lat0)*math.Sin(sr.LatTS))
		}
	} else {
		cons = math.Sqrt(math.Pow(1+sr.E, 1+sr.E) * math.Pow(1-sr.E, 1-sr.E))
		if sr.K0 == 1 && !math.IsNaN(sr.LatTS) && math.Abs(coslat0) <= epsln &&
			math.Abs(math.Cos(sr.LatTS)) > epsln {
			// Polar aspect with a latitude of true scale: recompute
			// the scale factor with Snyder equation 21-35.
			sr.K0 = 0.5 * cons * msfnz(sr.E, math.Sin(sr.LatTS), math.Cos(sr.LatTS)) /
				tsfnz(sr.E, con*sr.LatTS, con*math.Sin(sr.LatTS))
		}
		ms1 = msfnz(sr.E, sinlat0, coslat0)
		chi0 = 2*math.Atan(ssfn(sr.Lat0, sinlat0, sr.E)) - halfPi
		sinchi0 = math.Sin(chi0)
		coschi0 = math.Cos(chi0)
	}

	forward = func(lon, lat float64) (x, y float64, err error) {
		sinlat := math.Sin(lat)
		coslat := math.Cos(lat)
		dlon := adjustLon(lon - sr.Long0)

		if math.Abs(math.Abs(lon-sr.Long0)-math.Pi) <= epsln && math.Abs(lat+sr.Lat0) <= epsln {
			return math.NaN(), math.NaN(),
				fmt.Errorf("icetrack: point (%g, %g) is antipodal to the projection origin", lon, lat)
		}
		if sphere {
			a := 2 * sr.K0 / (1 + sinlat0*sinlat + coslat0*coslat*math.Cos(dlon))
			x = sr.A*a*coslat*math.Sin(dlon) + sr.X0
			y = sr.A*a*(coslat0*sinlat-sinlat0*coslat*math.Cos(dlon)) + sr.Y0
			return x, y, nil
		}

		chi := 2*math.Atan(ssfn(lat, sinlat, sr.E)) - halfPi
		sinchi := math.Sin(chi)
		coschi := math.Cos(chi)
		if math.Abs(coslat0) <= epsln { // polar aspect
			ts := tsfnz(sr.E, lat*con, con*sinlat)
			rh := 2 * sr.A * sr.K0 * ts / cons
			x = sr.X0 + rh*math.Sin(lon-sr.Long0)
			y = sr.Y0 - con*rh*math.Cos(lon-sr.Long0)
			return x, y, nil
		}
		var a float64
		if math.Abs(sinlat0) < epsln { // equatorial aspect
			a = 2 * sr.A * sr.K0 / (1 + coschi*math.Cos(dlon))
			y = a * sinchi
		} else { // oblique aspect
			a = 2 * sr.A * sr.K0 * ms1 /
				(coschi0 * (1 + sinchi0*sinchi + coschi0*coschi*math.Cos(dlon)))
			y = a*(coschi0*sinchi-sinchi0*coschi*math.Cos(dlon)) + sr.Y0
		}
		x = a*coschi*math.Sin(dlon) + sr.X0
		return x, y, nil
	}

	inverse = func(x, y float64) (lon, lat float64, err error) {
		x -= sr.X0
		y -= sr.Y0
		rh := math.Sqrt(x*x + y*y)

		if sphere {
			c := 2 * math.Atan(rh/(2*sr.A*sr.K0))
			if rh <= epsln {
				return sr.Long0, sr.Lat0, nil
			}
			lat = math.Asin(math.Cos(c)*sinlat0 + y*math.Sin(c)*coslat0/rh)
			if math.Abs(coslat0) < epsln {
				if sr.Lat0 > 0 {
					lon = adjustLon(sr.Long0 + math.Atan2(x, -y))
				} else {
					lon = adjustLon(sr.Long0 + math.Atan2(x, y))
				}
			} else {
				lon = adjustLon(sr.Long0 +
					math.Atan2(x*math.Sin(c), rh*coslat0*math.Cos(c)-y*sinlat0*math.Sin(c)))
			}
			return lon, lat, nil
		}

		if math.Abs(coslat0) <= epsln { // polar aspect
			if rh <= epsln {
				return sr.Long0, sr.Lat0, nil
			}
			x *= con
			y *= con
			ts := rh * cons / (2 * sr.A * sr.K0)
			lat, err = phi2z(sr.E, ts)
			if err != nil {
				return math.NaN(), math.NaN(), err
			}
			lat *= con
			lon = con * adjustLon(con*sr.Long0+math.Atan2(x, -y))
			return lon, lat, nil
		}
		ce := 2 * math.Atan(rh*coschi0/(2*sr.A*sr.K0*ms1))
		lon = sr.Long0
		chi := chi0
		if rh > epsln {
			chi = math.Asin(math.Cos(ce)*sinchi0 + y*math.Sin(ce)*coschi0/rh)
			lon = adjustLon(sr.Long0 +
				math.Atan2(x*math.Sin(ce), rh*coschi0*math.Cos(ce)-y*sinchi0*math.Sin(ce)))
		}
		phi, err := phi2z(sr.E, math.Tan(0.5*(halfPi+chi)))
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		return lon, -phi, nil
	}
	return forward, inverse, nil
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func adjustLon(x float64) float64 {
	if math.Abs(x) <= sPi {
		return x
	}
	return x - sign(x)*twoPi
}

func msfnz(eccent, sinphi, cosphi float64) float64 {
	con := eccent * sinphi
	return cosphi / math.Sqrt(1-con*con)
}

func tsfnz(eccent, phi, sinphi float64) float64 {
	con := eccent * sinphi
	com := 0.5 * eccent
	con = math.Pow((1-con)/(1+con), com)
	return math.Tan(0.5*(halfPi-phi)) / con
}

func ssfn(phi, sinphi, eccent float64) float64 {
	sinphi *= eccent
	return math.Tan(0.5*(halfPi+phi)) * math.Pow((1-sinphi)/(1+sinphi), 0.5*eccent)
}

func phi2z(eccent, ts float64) (float64, error) {
	eccnth := 0.5 * eccent
	phi := halfPi - 2*math.Atan(ts)
	for i := 0; i <= 15; i++ {
		con := eccent * math.Sin(phi)
		dphi := halfPi - 2*math.Atan(ts*math.Pow((1-con)/(1+con), eccnth)) - phi
		phi += dphi
		if math.Abs(dphi) <= 1.0e-10 {
			return phi, nil
		}
	}
	return math.NaN(), fmt.Errorf("icetrack: latitude iteration did not converge")
}
