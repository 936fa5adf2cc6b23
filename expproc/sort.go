// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expproc

import (
	"sort"
	"strconv"

	"github.com/pimbench/pimbench/explog"
)

// SortBy returns a copy of recs sorted in ascending order of field.
// Records with a null field sort first. The sort is stable, so records
// with equal keys stay in log order.
func SortBy(recs []explog.Record, field explog.Field) []explog.Record {
	out := append([]explog.Record(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i].Int(field)) < sortKey(out[j].Int(field))
	})
	return out
}

// Labels returns the value of field for each record, formatted for an
// axis. Null values are shown as "None".
func Labels(recs []explog.Record, field explog.Field) []string {
	labels := make([]string, len(recs))
	for i := range recs {
		if v := recs[i].Int(field); v.Valid {
			labels[i] = strconv.FormatInt(v.Int64, 10)
		} else {
			labels[i] = "None"
		}
	}
	return labels
}
