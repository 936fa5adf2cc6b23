// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explog

import (
	"database/sql"
	"regexp"
	"strconv"
)

// A Kind classifies a log line.
type Kind int

const (
	// Inert lines carry nothing the builder uses.
	Inert Kind = iota
	// Header lines start a new experiment configuration.
	Header
	// Allocation lines report the number of DPUs allocated.
	Allocation
	// HostTime lines report the host computation time.
	HostTime
	// DPUTime lines report the DPU time and finalize a record.
	DPUTime
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case Allocation:
		return "allocation"
	case HostTime:
		return "host-time"
	case DPUTime:
		return "dpu-time"
	}
	return "inert"
}

// The tasklet sweep runs at a fixed configuration that the log does
// not repeat on its header line.
const (
	tlBatch    = 128
	tlSeqLen   = 64
	tlHeadDim  = 32
	tlNumHeads = 16
)

// A recognizer matches one kind of line and applies its captures to
// the builder state. apply is called with the submatches of re.
type recognizer struct {
	kind  Kind
	re    *regexp.Regexp
	apply func(b *Builder, m []string)
}

// recognizers are tried in order; the first that matches claims the
// line.
var recognizers = []recognizer{
	{Header, regexp.MustCompile(`\[EXP_SEQ\]\s*BATCH=(\d+),\s*SEQ_LEN=(\d+)`), func(b *Builder, m []string) {
		b.cur = Record{Type: ExpSeq, Batch: atoi(m[1]), SeqLen: atoi(m[2])}
	}},
	{Header, regexp.MustCompile(`\[EXP_BATCH\]\s*BATCH=(\d+),\s*SEQ_LEN=(\d+)`), func(b *Builder, m []string) {
		b.cur = Record{Type: ExpBatch, Batch: atoi(m[1]), SeqLen: atoi(m[2])}
	}},
	{Header, regexp.MustCompile(`\[EXP_HD\]\s*BATCH=(\d+),\s*SEQ_LEN=(\d+),\s*HEAD_DIM=(\d+)`), func(b *Builder, m []string) {
		b.cur = Record{Type: ExpHD, Batch: atoi(m[1]), SeqLen: atoi(m[2]), HeadDim: atoi(m[3])}
	}},
	{Header, regexp.MustCompile(`\[EXP_NH\]\s*BATCH=(\d+),\s*SEQ_LEN=(\d+),\s*NUM_HEADS=(\d+)`), func(b *Builder, m []string) {
		b.cur = Record{Type: ExpNH, Batch: atoi(m[1]), SeqLen: atoi(m[2]), NumHeads: atoi(m[3])}
	}},
	{Header, regexp.MustCompile(`\[EXP_TL\].*NR_TASKLETS=(\d+)`), func(b *Builder, m []string) {
		b.cur = Record{
			Type:     ExpTL,
			Batch:    some(tlBatch),
			SeqLen:   some(tlSeqLen),
			HeadDim:  some(tlHeadDim),
			NumHeads: some(tlNumHeads),
			Tasklets: atoi(m[1]),
		}
	}},
	{Allocation, regexp.MustCompile(`DPUs allocated:\s*(\d+)`), func(b *Builder, m []string) {
		b.cur.Allocated = atoi(m[1])
	}},
	{HostTime, regexp.MustCompile(`Host total computation time:\s*([0-9.]+)\s*ms`), func(b *Builder, m []string) {
		b.cur.HostMS = atof(m[1])
	}},
	{DPUTime, regexp.MustCompile(`Average cycles per slot:\s*([0-9.]+)\s*\(\s*([0-9.]+)\s*ms\s*\)`), func(b *Builder, m []string) {
		// m[1] is the raw cycle count, which is not kept.
		ms := atof(m[2])
		if !ms.Valid {
			return
		}
		rec := b.cur
		rec.DPUMS = ms
		rec.Line = b.line
		b.recs = append(b.recs, rec)
	}},
}

// match returns the first recognizer that claims line and its
// submatches. Allocation and time lines are only claimed while a
// header is active.
func match(line string, active bool) (*recognizer, []string) {
	for i := range recognizers {
		rc := &recognizers[i]
		if rc.kind != Header && !active {
			continue
		}
		if m := rc.re.FindStringSubmatch(line); m != nil {
			return rc, m
		}
	}
	return nil, nil
}

func atoi(s string) sql.NullInt64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return some(v)
}

func atof(s string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
