// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package explog reads the text log written by the host/DPU attention
// benchmarks and turns it into experiment records.
//
// The log is line oriented and unstructured. A header line such as
//
//	[EXP_SEQ] BATCH=128, SEQ_LEN=64
//
// starts a new experiment configuration. Later lines report the
// number of DPUs allocated, the host computation time and finally the
// DPU time:
//
//	DPUs allocated: 4
//	Host total computation time: 12.5 ms
//	Average cycles per slot: 9000 ( 3.2 ms )
//
// Each DPU time line produces one Record carrying the dimensions of the
// most recent header.
package explog

import (
	"database/sql"
	"fmt"
)

// An ExpType identifies the sweep that produced a record.
// The zero value means no header has been seen.
type ExpType string

const (
	ExpSeq   ExpType = "EXP_SEQ"
	ExpBatch ExpType = "EXP_BATCH"
	ExpHD    ExpType = "EXP_HD"
	ExpNH    ExpType = "EXP_NH"
	ExpTL    ExpType = "EXP_TL"
)

// ExpTypes lists every sweep in the order the benchmarks run them.
var ExpTypes = []ExpType{ExpSeq, ExpBatch, ExpHD, ExpNH, ExpTL}

// Valid reports whether t is one of the known sweeps.
func (t ExpType) Valid() bool {
	for _, x := range ExpTypes {
		if t == x {
			return true
		}
	}
	return false
}

// A Record is one experiment measurement.
//
// Records are plain values: copying a Record never shares state with
// the original.
type Record struct {
	Batch    sql.NullInt64
	SeqLen   sql.NullInt64
	HeadDim  sql.NullInt64
	NumHeads sql.NullInt64
	Tasklets sql.NullInt64

	HostMS    sql.NullFloat64
	DPUMS     sql.NullFloat64
	Allocated sql.NullInt64

	Type ExpType

	// Line is the 1-based line of the DPU time line that finalized
	// this record, or 0 if the record was not read from a log.
	Line int
}

// A Field names one of the integer dimensions of a Record.
type Field int

const (
	FieldBatch Field = iota
	FieldSeqLen
	FieldHeadDim
	FieldNumHeads
	FieldTasklets
)

var fieldNames = [...]string{
	FieldBatch:    "batch",
	FieldSeqLen:   "seq_len",
	FieldHeadDim:  "head_dim",
	FieldNumHeads: "num_heads",
	FieldTasklets: "tasklets",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the Field with the given column name.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// Int returns the value of dimension f.
func (r *Record) Int(f Field) sql.NullInt64 {
	switch f {
	case FieldBatch:
		return r.Batch
	case FieldSeqLen:
		return r.SeqLen
	case FieldHeadDim:
		return r.HeadDim
	case FieldNumHeads:
		return r.NumHeads
	case FieldTasklets:
		return r.Tasklets
	}
	panic(fmt.Sprintf("unknown field %v", f))
}

func (r *Record) String() string {
	return fmt.Sprintf("%s batch=%s seq_len=%s head_dim=%s num_heads=%s tasklets=%s host_ms=%s dpu_ms=%s allocated=%s",
		r.Type, fmtInt(r.Batch), fmtInt(r.SeqLen), fmtInt(r.HeadDim), fmtInt(r.NumHeads),
		fmtInt(r.Tasklets), fmtFloat(r.HostMS), fmtFloat(r.DPUMS), fmtInt(r.Allocated))
}

func some(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}
