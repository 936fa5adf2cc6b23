// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// A Builder folds log lines into finalized records.
//
// It keeps a single current record. A header line replaces the
// current record wholesale, allocation and host time lines update it
// in place, and every DPU time line appends a copy of it, with the DPU
// time filled in, to the output. The current record is not cleared
// after a DPU time line, so repeated measurements under one header
// share that header's allocation and host time.
//
// The zero Builder is ready to use.
type Builder struct {
	cur  Record
	recs []Record
	line int
}

// Add processes one line of the log. Lines that match nothing, and
// allocation or time lines seen before any header, are ignored.
func (b *Builder) Add(line string) Kind {
	b.line++
	line = strings.TrimSpace(line)
	rc, m := match(line, b.cur.Type != "")
	if rc == nil {
		return Inert
	}
	rc.apply(b, m)
	return rc.kind
}

// Records returns the records finalized so far, in log order.
// The caller must not modify the returned slice.
func (b *Builder) Records() []Record {
	return b.recs
}

// maxLine bounds the length of a single log line. The benchmarks
// occasionally dump whole matrices on one line; anything past maxLine
// bytes is discarded and the line is processed as truncated.
const maxLine = 1 << 20

// Parse reads a log from r and returns its finalized records.
// fileName is used in error messages only.
func Parse(r io.Reader, fileName string) ([]Record, error) {
	var b Builder
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	for {
		chunk, more, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", fileName, b.line+1, err)
		}
		if n := maxLine - len(line); n > 0 {
			if len(chunk) > n {
				chunk = chunk[:n]
			}
			line = append(line, chunk...)
		}
		if more {
			continue
		}
		b.Add(string(line))
		line = line[:0]
	}
	return b.Records(), nil
}

// ReadFile reads and parses the log at path. A missing or unreadable
// file is the only error; malformed lines are skipped.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}
