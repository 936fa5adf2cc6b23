// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pimplot summarizes a run of the UPMEM attention benchmarks.
//
// It reads the benchmark log from log.txt in the current directory and
// writes into the results directory:
//
//	results.csv       every measurement, one row per DPU time line
//	results.db        the same records in an SQLite database
//	seq_bar.png       host vs DPU time by sequence length (batch 128)
//	batch_bar.png     by batch size (sequence length 128)
//	headdim_bar.png   by head dimension (batch 128, sequence length 32)
//	numheads_bar.png  by head count (batch 64, sequence length 32)
//	tasklets_bar.png  by tasklet count
//	index.html        a page showing the charts and the records
//
// A chart whose sweep has no measurements is skipped. Pimplot takes no
// flags; it fails only if the log cannot be read or an output cannot be
// written.
package main

import (
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pimbench/pimbench/expchart"
	"github.com/pimbench/pimbench/explog"
	"github.com/pimbench/pimbench/expproc"
	"github.com/pimbench/pimbench/expstore"
)

// config holds the input and output locations.
type config struct {
	LogFile string
	OutDir  string

	// Output file names, relative to OutDir.
	CSVFile  string
	DBFile   string
	HTMLFile string
}

func defaultConfig() config {
	return config{
		LogFile:  "log.txt",
		OutDir:   "results",
		CSVFile:  "results.csv",
		DBFile:   "results.db",
		HTMLFile: "index.html",
	}
}

// A sweep is one family of experiments and the chart drawn for it.
type sweep struct {
	exp    explog.ExpType
	filter *expproc.Filter
	chart  expchart.Options
}

const chartTitle = "CPU vs UPMEM-PIM"

var sweeps = []sweep{
	{explog.ExpSeq, expproc.MustFilter("exp_type:EXP_SEQ batch:128"), expchart.Options{
		Field: explog.FieldSeqLen, XLabel: "SEQ_LEN", Title: chartTitle, File: "seq_bar.png"}},
	{explog.ExpBatch, expproc.MustFilter("exp_type:EXP_BATCH seq_len:128"), expchart.Options{
		Field: explog.FieldBatch, XLabel: "BATCH_SIZE", Title: chartTitle, File: "batch_bar.png", ShowAllocated: true}},
	{explog.ExpHD, expproc.MustFilter("exp_type:EXP_HD batch:128 seq_len:32"), expchart.Options{
		Field: explog.FieldHeadDim, XLabel: "HEAD_DIM", Title: chartTitle, File: "headdim_bar.png"}},
	{explog.ExpNH, expproc.MustFilter("exp_type:EXP_NH batch:64 seq_len:32"), expchart.Options{
		Field: explog.FieldNumHeads, XLabel: "NUM_HEADS", Title: chartTitle, File: "numheads_bar.png", ShowAllocated: true}},
	{explog.ExpTL, expproc.MustFilter("exp_type:EXP_TL"), expchart.Options{
		Field: explog.FieldTasklets, XLabel: "NR_TASKLETS", Title: chartTitle, File: "tasklets_bar.png"}},
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	if err := run(defaultConfig(), logger); err != nil {
		logger.Fatal("pimplot failed", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func run(cfg config, logger *zap.Logger) error {
	recs, err := explog.ReadFile(cfg.LogFile)
	if err != nil {
		return err
	}
	logger.Info("parsed log", zap.String("path", cfg.LogFile), zap.Int("records", len(recs)))

	csvPath := filepath.Join(cfg.OutDir, cfg.CSVFile)
	if err := explog.WriteFile(csvPath, recs); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	logger.Info("saved CSV", zap.String("path", csvPath))

	dbPath := filepath.Join(cfg.OutDir, cfg.DBFile)
	if err := storeRecords(dbPath, recs); err != nil {
		return fmt.Errorf("storing records in %s: %w", dbPath, err)
	}
	logger.Info("stored records", zap.String("path", dbPath), zap.Int("records", len(recs)))

	r := expchart.NewRenderer(cfg.OutDir, logger)
	var charts []chartResult
	for _, sw := range sweeps {
		rows := sw.filter.Apply(recs)
		path, err := r.Render(rows, sw.chart)
		if err != nil {
			return fmt.Errorf("rendering %s chart: %w", sw.exp, err)
		}
		charts = append(charts, chartResult{Exp: sw.exp, Filter: sw.filter.String(), File: sw.chart.File, Rows: len(rows), Rendered: path != ""})
	}

	htmlPath := filepath.Join(cfg.OutDir, cfg.HTMLFile)
	if err := writeIndex(htmlPath, charts, recs); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	logger.Info("wrote index", zap.String("path", htmlPath))

	logger.Info("done")
	return nil
}

func storeRecords(path string, recs []explog.Record) error {
	s, err := expstore.OpenSQL("sqlite3", path)
	if err != nil {
		return err
	}
	if err := s.ReplaceAll(recs); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
