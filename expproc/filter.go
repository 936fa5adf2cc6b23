// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expproc selects and orders experiment records for
// presentation.
//
// A filter query is a space-separated list of key:value terms, all of
// which must match, such as
//
//	exp_type:EXP_NH batch:64 seq_len:32
//
// The keys are the dimension columns batch, seq_len, head_dim,
// num_heads and tasklets, plus exp_type. The query "*" matches every
// record.
package expproc

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pimbench/pimbench/explog"
)

// A Filter selects records by exact equality on dimensions and
// experiment type. Unset predicates match anything.
type Filter struct {
	dims    []dimPred
	expType explog.ExpType
}

type dimPred struct {
	field explog.Field
	val   int64
}

// A SyntaxError is an error in a filter query.
type SyntaxError struct {
	Query string // The original query string
	Off   int    // Byte offset of the error in Query
	Msg   string // Error message
}

func (e *SyntaxError) Error() string {
	// Show the original query and point to the offset.
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, e.Off, "")
}

// NewFilter parses query into a Filter.
func NewFilter(query string) (*Filter, error) {
	f := new(Filter)
	if strings.TrimSpace(query) == "*" {
		return f, nil
	}
	seen := make(map[string]bool)
	off := 0
	for _, term := range strings.Fields(query) {
		off += strings.Index(query[off:], term)
		errAt := func(delta int, format string, args ...interface{}) error {
			return &SyntaxError{query, off + delta, fmt.Sprintf(format, args...)}
		}

		key, val, ok := strings.Cut(term, ":")
		if !ok {
			return nil, errAt(0, "expected key:value")
		}
		if val == "" {
			return nil, errAt(len(key)+1, "missing value for %s", key)
		}
		if seen[key] {
			return nil, errAt(0, "duplicate key %s", key)
		}
		seen[key] = true

		if key == "exp_type" {
			t := explog.ExpType(val)
			if !t.Valid() {
				return nil, errAt(len(key)+1, "unknown experiment type %s", val)
			}
			f.expType = t
		} else if field, ok := explog.ParseField(key); ok {
			v, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, errAt(len(key)+1, "%s value must be an integer", key)
			}
			f.dims = append(f.dims, dimPred{field, v})
		} else {
			return nil, errAt(0, "unknown key %s", key)
		}
		off += len(term)
	}
	return f, nil
}

// MustFilter is like NewFilter but panics if query cannot be parsed.
func MustFilter(query string) *Filter {
	f, err := NewFilter(query)
	if err != nil {
		panic(err)
	}
	return f
}

// Match reports whether rec satisfies every predicate of f.
// It does not look at the DPU time.
func (f *Filter) Match(rec *explog.Record) bool {
	if f.expType != "" && rec.Type != f.expType {
		return false
	}
	for _, p := range f.dims {
		if v := rec.Int(p.field); !v.Valid || v.Int64 != p.val {
			return false
		}
	}
	return true
}

// Apply returns the records that match f and have a DPU time, in
// their original order. It returns nil if nothing matches.
func (f *Filter) Apply(recs []explog.Record) []explog.Record {
	var out []explog.Record
	for i := range recs {
		if recs[i].DPUMS.Valid && f.Match(&recs[i]) {
			out = append(out, recs[i])
		}
	}
	return out
}

func (f *Filter) String() string {
	var terms []string
	if f.expType != "" {
		terms = append(terms, "exp_type:"+string(f.expType))
	}
	for _, p := range f.dims {
		terms = append(terms, fmt.Sprintf("%s:%d", p.field, p.val))
	}
	if len(terms) == 0 {
		return "*"
	}
	return strings.Join(terms, " ")
}

// nullKey orders records whose key is null before all others.
const nullKey = -1

func sortKey(v sql.NullInt64) int64 {
	if !v.Valid {
		return nullKey
	}
	return v.Int64
}
