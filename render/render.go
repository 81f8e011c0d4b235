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

// Package render draws maps and plots of land-ice height data as
// PNG images.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/polarmodel/icetrack"
)

// TrackMap draws the segments of t selected by mask as colored dots
// on a raster map in the track's projected coordinate system and
// writes the result to w as a PNG image. A nil mask draws every
// segment. The track must have been projected first.
func TrackMap(w io.Writer, t *icetrack.ATL06Track, mask []bool, width int) error {
	if len(t.X) != t.Len() {
		return fmt.Errorf("render: track %s %s has not been projected", t.ID, t.Beam)
	}
	var xs, ys, hs []float64
	for i := 0; i < t.Len(); i++ {
		if mask != nil && !mask[i] {
			continue
		}
		if math.IsNaN(t.Height[i]) {
			continue
		}
		xs = append(xs, t.X[i])
		ys = append(ys, t.Y[i])
		hs = append(hs, t.Height[i])
	}
	if len(xs) == 0 {
		return fmt.Errorf("render: track %s %s has no segments to draw", t.ID, t.Beam)
	}

	cmap := carto.NewColorMap(carto.LinCutoff)
	cmap.AddArray(hs)
	cmap.Set()

	// Pad the data extent so edge points don't sit on the frame.
	W, E := floats.Min(xs), floats.Max(xs)
	S, N := floats.Min(ys), floats.Max(ys)
	padX, padY := 0.05*(E-W), 0.05*(N-S)
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	m := carto.NewRasterMap(N+padY, S-padY, E+padX, W-padX, width)

	glyph := draw.GlyphStyle{Shape: draw.RingGlyph{}}
	xLen := m.Max.X - m.Min.X
	yLen := m.Max.Y - m.Min.Y
	glyph.Radius = vg.Length(0.005 * math.Sqrt(float64(xLen*xLen+yLen*yLen)))
	lineStyle := draw.LineStyle{Width: 0.1 * vg.Millimeter}

	for i := range xs {
		c := cmap.GetColor(hs[i])
		glyph.Color = c
		lineStyle.Color = c
		if err := m.DrawVector(geom.Point{X: xs[i], Y: ys[i]}, c, lineStyle, glyph); err != nil {
			return fmt.Errorf("render: drawing track point: %v", err)
		}
	}
	return m.WriteTo(w)
}

// GridMap draws one time layer of a gridded height-change raster,
// one pixel per grid cell, and writes the result to w as a PNG
// image. Cells with no data are transparent.
func GridMap(w io.Writer, g *icetrack.ATL15Grid, layer int) error {
	l, err := g.Layer(layer)
	if err != nil {
		return err
	}
	var valid []float64
	for _, v := range l.Elements {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return fmt.Errorf("render: layer %d has no valid cells", layer)
	}
	cmap := carto.NewColorMap(carto.LinCutoff)
	cmap.AddArray(valid)
	cmap.Set()

	ny, nx := len(g.Y), len(g.X)
	if nx == 0 || ny == 0 {
		return fmt.Errorf("render: grid has no cells")
	}
	// The image is filled pixel by pixel, so the map bounds only
	// determine its dimensions. Pixel-unit bounds make the height
	// come out to exactly one row per grid cell; bounds derived from
	// the cell coordinates can round the height down and lose the
	// last row.
	m := carto.NewRasterMap(float64(ny), 0, float64(nx), 0, nx)

	ascending := ny > 1 && g.Y[0] < g.Y[ny-1]
	for i := 0; i < ny; i++ {
		row := i
		if ascending {
			row = ny - 1 - i
		}
		for j := 0; j < nx; j++ {
			v := l.Get(i, j)
			if math.IsNaN(v) {
				m.I.Set(j, row, color.NRGBA{})
				continue
			}
			m.I.Set(j, row, cmap.GetColor(v))
		}
	}
	return m.WriteTo(w)
}

// SeriesPlot plots the height history of one repeat-track reference
// point and writes the result to w as a PNG image. Cycles with no
// valid measurement are left out. If the point has enough
// measurements to fit a trend, the fitted line is drawn through
// them.
func SeriesPlot(w io.Writer, s *icetrack.ATL11Series, i int) error {
	if i < 0 || i >= s.Len() {
		return fmt.Errorf("render: point %d out of range [0,%d)", i, s.Len())
	}
	heights := s.PointHeights(i)
	times := s.PointTimes(i)
	var pts plotter.XYs
	for j := range heights {
		if math.IsNaN(heights[j]) {
			continue
		}
		pts = append(pts, plotter.XY{X: times[j], Y: heights[j]})
	}
	if len(pts) == 0 {
		return fmt.Errorf("render: point %d has no valid measurements", i)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s point %d", s.ID, i)
	p.X.Label.Text = "Years since 2018-01-01"
	p.Y.Label.Text = "Height (m)"

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("render: %v", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = 2.5
	p.Add(sc)

	if rate, ok := s.ChangeRate(i); ok {
		t0, t1 := pts[0].X, pts[len(pts)-1].X
		// Anchor the trend line at the centroid of the measurements.
		var tMean, hMean float64
		for _, pt := range pts {
			tMean += pt.X
			hMean += pt.Y
		}
		tMean /= float64(len(pts))
		hMean /= float64(len(pts))
		trend, err := plotter.NewLine(plotter.XYs{
			{X: t0, Y: hMean + rate*(t0-tMean)},
			{X: t1, Y: hMean + rate*(t1-tMean)},
		})
		if err != nil {
			return fmt.Errorf("render: %v", err)
		}
		trend.Color = color.NRGBA{R: 200, A: 255}
		p.Add(trend)
		p.Legend.Add(fmt.Sprintf("%.2f m/yr", rate), trend)
	}

	c := vgimg.NewWith(vgimg.UseWH(6*vg.Inch, 4*vg.Inch), vgimg.UseDPI(96))
	p.Draw(draw.New(c))
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	return nil
}
