// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pimbench/pimbench/explog"
	"github.com/pimbench/pimbench/expproc"
	"github.com/pimbench/pimbench/expstore"
)

func testConfig(t *testing.T, logFile string) config {
	cfg := defaultConfig()
	cfg.LogFile = logFile
	cfg.OutDir = filepath.Join(t.TempDir(), "results")
	return cfg
}

func TestSweepFilters(t *testing.T) {
	for _, sw := range sweeps {
		if !strings.Contains(sw.filter.String(), "exp_type:"+string(sw.exp)) {
			t.Errorf("%s: filter %s does not select its own sweep", sw.exp, sw.filter)
		}
		// Re-parsing the printed form selects the same records.
		f, err := expproc.NewFilter(sw.filter.String())
		if err != nil {
			t.Errorf("%s: %v", sw.exp, err)
			continue
		}
		if f.String() != sw.filter.String() {
			t.Errorf("%s: round trip gave %s, want %s", sw.exp, f, sw.filter)
		}
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, filepath.Join("testdata", "log.txt"))
	core, logs := observer.New(zap.InfoLevel)
	if err := run(cfg, zap.New(core)); err != nil {
		t.Fatal(err)
	}

	for _, sw := range sweeps {
		if _, err := os.Stat(filepath.Join(cfg.OutDir, sw.chart.File)); err != nil {
			t.Errorf("%s: %v", sw.exp, err)
		}
	}
	if n := logs.FilterMessage("saved chart").Len(); n != len(sweeps) {
		t.Errorf("got %d saved chart notices, want %d", n, len(sweeps))
	}
	if logs.FilterMessage("done").Len() != 1 {
		t.Errorf("missing completion notice")
	}

	csv, err := os.ReadFile(filepath.Join(cfg.OutDir, cfg.CSVFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(csv), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("CSV has %d lines, want 8:\n%s", len(lines), csv)
	}
	if lines[2] != "128,64,,,,12.5,3.2,4,EXP_SEQ" {
		t.Errorf("CSV row 2 = %q", lines[2])
	}
	if lines[7] != "128,64,32,16,11,40.0,9.3,,EXP_TL" {
		t.Errorf("CSV row 7 = %q", lines[7])
	}

	s, err := expstore.OpenSQL("sqlite3", filepath.Join(cfg.OutDir, cfg.DBFile))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if n, err := s.CountRecords(explog.ExpBatch); err != nil || n != 2 {
		t.Errorf("stored %d EXP_BATCH records (%v), want 2", n, err)
	}

	index, err := os.ReadFile(filepath.Join(cfg.OutDir, cfg.HTMLFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`src="seq_bar.png"`, `src="tasklets_bar.png"`, "<td>EXP_NH</td>"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index.html does not contain %s", want)
		}
	}
}

func TestRunSkipsEmptySweeps(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "log.txt")
	const log = `[EXP_SEQ] BATCH=128, SEQ_LEN=64
DPUs allocated: 4
Host total computation time: 12.5 ms
Average cycles per slot: 9000.0 ( 3.2 ms )
[EXP_SEQ] BATCH=64, SEQ_LEN=64
Average cycles per slot: 9000.0 ( 3.2 ms )
`
	if err := os.WriteFile(logFile, []byte(log), 0666); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, logFile)
	core, logs := observer.New(zap.InfoLevel)
	if err := run(cfg, zap.New(core)); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutDir, "seq_bar.png")); err != nil {
		t.Error(err)
	}
	for _, file := range []string{"batch_bar.png", "headdim_bar.png", "numheads_bar.png", "tasklets_bar.png"} {
		if _, err := os.Stat(filepath.Join(cfg.OutDir, file)); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: got %v, want not exist", file, err)
		}
	}
	if n := logs.FilterMessage("skipping chart: no data").Len(); n != 4 {
		t.Errorf("got %d skip notices, want 4", n)
	}
	index, err := os.ReadFile(filepath.Join(cfg.OutDir, cfg.HTMLFile))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(index), "no data"); n != 4 {
		t.Errorf("index shows %d skipped charts, want 4", n)
	}
}

func TestRunNoHeaders(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(logFile, []byte("Average cycles per slot: 1 (1 ms)\n"), 0666); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, logFile)
	if err := run(cfg, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	csv, err := os.ReadFile(filepath.Join(cfg.OutDir, cfg.CSVFile))
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Join(explog.Columns, ",") + "\n"; string(csv) != want {
		t.Errorf("got CSV %q, want %q", csv, want)
	}
}

func TestRunMissingLog(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "log.txt"))
	err := run(cfg, zap.NewNop())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("got %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(cfg.OutDir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("output directory created after fatal error: %v", err)
	}
}
