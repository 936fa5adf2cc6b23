// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explog

import (
	"database/sql"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Columns is the CSV header, in column order.
var Columns = []string{
	"batch", "seq_len", "head_dim", "num_heads", "tasklets",
	"host_ms", "dpu_ms", "allocated", "exp_type",
}

// Cells returns the fields of r formatted as in Columns. Null fields
// are empty strings.
func (r *Record) Cells() []string {
	return []string{
		fmtInt(r.Batch),
		fmtInt(r.SeqLen),
		fmtInt(r.HeadDim),
		fmtInt(r.NumHeads),
		fmtInt(r.Tasklets),
		fmtFloat(r.HostMS),
		fmtFloat(r.DPUMS),
		fmtInt(r.Allocated),
		string(r.Type),
	}
}

// A CSVWriter writes records as comma-separated values.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter returns a writer that writes records to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteAll writes the header row followed by one row per record and
// flushes the output. Null fields are written as empty cells.
func (w *CSVWriter) WriteAll(recs []Record) error {
	if err := w.w.Write(Columns); err != nil {
		return err
	}
	for i := range recs {
		if err := w.w.Write(recs[i].Cells()); err != nil {
			return err
		}
	}
	w.w.Flush()
	return w.w.Error()
}

// WriteFile writes recs as CSV to path, replacing any existing file.
// The parent directory is created if needed.
func WriteFile(path string, recs []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := NewCSVWriter(f).WriteAll(recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

// fmtFloat formats v with the fewest digits that round-trip. Values
// of magnitude at least 1e16 or below 1e-4 use an exponent, and an
// integral value keeps a trailing ".0", so 40 is written as "40.0"
// and 1e16 as "1e+16".
func fmtFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	f := v.Float64
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
