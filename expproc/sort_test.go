// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expproc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pimbench/pimbench/explog"
)

func TestSortBy(t *testing.T) {
	recs := records(t, `[EXP_SEQ] BATCH=128, SEQ_LEN=256
Average cycles per slot: 1 (1 ms)
[EXP_SEQ] BATCH=128, SEQ_LEN=32
Average cycles per slot: 1 (2 ms)
[EXP_SEQ] BATCH=128, SEQ_LEN=256
Average cycles per slot: 1 (3 ms)
[EXP_SEQ] BATCH=128, SEQ_LEN=64
Average cycles per slot: 1 (4 ms)
`)
	null := explog.Record{Type: explog.ExpSeq}
	null.DPUMS.Float64, null.DPUMS.Valid = 5, true
	recs = append(recs, null)

	got := SortBy(recs, explog.FieldSeqLen)
	if diff := cmp.Diff([]float64{5, 2, 4, 1, 3}, dpuTimes(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"None", "32", "64", "256", "256"}, Labels(got, explog.FieldSeqLen)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	// The input is left alone.
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5}, dpuTimes(recs)); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}
