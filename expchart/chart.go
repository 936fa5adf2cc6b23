// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expchart draws host versus DPU timing comparisons as grouped
// bar charts.
package expchart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pimbench/pimbench/explog"
	"github.com/pimbench/pimbench/expproc"
)

// Options describes one chart.
type Options struct {
	// Field is the dimension on the x axis. Records are sorted by it.
	Field  explog.Field
	XLabel string
	Title  string

	// File is the image file name, relative to the Renderer's Dir.
	File string

	// Log selects a logarithmic time axis.
	Log bool

	// ShowAllocated writes the DPU allocation count above each DPU bar.
	ShowAllocated bool
}

// Bar geometry, in units of one x category.
const (
	barWidth  = 0.35
	barGap    = 0.06
	barOffset = (barWidth + barGap) / 2
)

var (
	colorHost = color.NRGBA{0xFF, 0x7A, 0x6E, 0xFF}
	colorDPU  = color.NRGBA{0x6D, 0xC9, 0x6F, 0xFF}
)

const (
	width  = 9 * vg.Inch
	height = 5 * vg.Inch
	dpi    = 100
)

// A Renderer writes chart images into a directory.
type Renderer struct {
	Dir    string
	Logger *zap.Logger
}

// NewRenderer returns a Renderer that writes into dir.
// If logger is nil, notices are discarded.
func NewRenderer(dir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Dir: dir, Logger: logger}
}

// Render draws recs as a PNG and returns the path it wrote. If recs is
// empty, Render logs that the chart was skipped and returns "" and a
// nil error; no file is written.
func (r *Renderer) Render(recs []explog.Record, opts Options) (string, error) {
	if len(recs) == 0 {
		r.Logger.Info("skipping chart: no data", zap.String("title", opts.Title), zap.String("file", opts.File))
		return "", nil
	}
	p, err := Plot(recs, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", opts.File, err)
	}

	if err := os.MkdirAll(r.Dir, 0777); err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, opts.File)
	if err := savePNG(p, path); err != nil {
		return "", err
	}
	r.Logger.Info("saved chart", zap.String("path", path), zap.Int("bars", len(recs)))
	return path, nil
}

// Plot builds the chart for recs without writing it anywhere.
func Plot(recs []explog.Record, opts Options) (*plot.Plot, error) {
	recs = expproc.SortBy(recs, opts.Field)

	host := make([]float64, len(recs))
	dpu := make([]float64, len(recs))
	for i := range recs {
		host[i] = nullNaN(recs[i].HostMS.Float64, recs[i].HostMS.Valid)
		dpu[i] = nullNaN(recs[i].DPUMS.Float64, recs[i].DPUMS.Valid)
	}

	if opts.Log && !anyPositive(host) && !anyPositive(dpu) {
		return nil, fmt.Errorf("log scale needs a positive time")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = "Time (ms)"
	if opts.Log {
		p.Y.Label.Text += " (log)"
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{0xA0}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	hostBars := &bars{values: host, offset: -barOffset, width: barWidth, color: colorHost, log: opts.Log}
	dpuBars := &bars{values: dpu, offset: barOffset, width: barWidth, color: colorDPU, log: opts.Log}
	p.Add(hostBars, dpuBars)
	p.Legend.Add("CPU Host (ms)", hostBars)
	p.Legend.Add("UPMEM DPU (ms)", dpuBars)
	p.Legend.Top = true

	if opts.ShowAllocated {
		labels, err := allocLabels(recs, dpu, opts.Log)
		if err != nil {
			return nil, err
		}
		if labels != nil {
			p.Add(labels)
		}
	}

	p.NominalX(expproc.Labels(recs, opts.Field)...)
	return p, nil
}

// allocLabels places each non-null allocation count just above its
// DPU bar. It returns nil if there is nothing to label.
func allocLabels(recs []explog.Record, dpu []float64, log bool) (*plotter.Labels, error) {
	var xyl plotter.XYLabels
	for i := range recs {
		if !recs[i].Allocated.Valid || math.IsNaN(dpu[i]) || log && dpu[i] <= 0 {
			continue
		}
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(i) + barOffset, Y: dpu[i]})
		xyl.Labels = append(xyl.Labels, strconv.FormatInt(recs[i].Allocated.Int64, 10))
	}
	if len(xyl.Labels) == 0 {
		return nil, nil
	}
	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].Font.Size = vg.Points(9)
	}
	labels.Offset = vg.Point{Y: vg.Points(2)}
	return labels, nil
}

func savePNG(p *plot.Plot, path string) error {
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	p.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func anyPositive(vs []float64) bool {
	for _, v := range vs {
		if v > 0 && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func nullNaN(v float64, valid bool) float64 {
	if !valid {
		return math.NaN()
	}
	return v
}
