// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expchart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// bars is one series of a grouped bar chart on a nominal x axis.
// Bar i is centered at x = i + offset. Unlike plotter.BarChart, the
// width and offset are in axis units, so the groups stay aligned with
// the nominal ticks at any image size, and on a log scale bars rise
// from the bottom of the axis instead of from zero.
type bars struct {
	values []float64 // NaN for missing
	offset float64
	width  float64
	color  color.Color
	log    bool
}

func (b *bars) ok(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && (!b.log || v > 0)
}

// Plot implements the plot.Plotter interface.
func (b *bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	base := 0.0
	if b.log {
		base = plt.Y.Min
	}
	bottom := trY(base)
	for i, v := range b.values {
		if !b.ok(v) {
			continue
		}
		x := float64(i) + b.offset
		left, right := trX(x-b.width/2), trX(x+b.width/2)
		top := trY(v)
		pts := []vg.Point{
			{X: left, Y: bottom},
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: bottom},
		}
		c.FillPolygon(b.color, c.ClipPolygonY(pts))
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin = b.offset - b.width/2
	xmax = float64(len(b.values)-1) + b.offset + b.width/2
	ymin, ymax = math.Inf(1), math.Inf(-1)
	if !b.log {
		ymin, ymax = 0, 0
	}
	for _, v := range b.values {
		if !b.ok(v) {
			continue
		}
		ymin = math.Min(ymin, v)
		ymax = math.Max(ymax, v)
	}
	return
}

// Thumbnail implements the plot.Thumbnailer interface.
func (b *bars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.color, c.ClipPolygonY(pts))
}
