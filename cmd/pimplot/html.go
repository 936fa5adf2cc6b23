// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/google/safehtml/template"

	"github.com/pimbench/pimbench/explog"
)

// chartResult describes what happened to one sweep's chart.
type chartResult struct {
	Exp      explog.ExpType
	Filter   string
	File     string
	Rows     int
	Rendered bool
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>CPU vs UPMEM-PIM</title>
<style>
table.records { border-collapse: collapse; }
table.records td, table.records th { border: 1px solid #ccc; padding: 2px 6px; text-align: right; }
.skipped { color: #888; }
</style>
</head>
<body>
<h1>CPU vs UPMEM-PIM</h1>
{{range .Charts -}}
<h2>{{.Exp}}</h2>
<p><code>{{.Filter}}</code></p>
{{if .Rendered -}}
<img src="{{.File}}" alt="{{.Exp}} chart">
{{- else -}}
<p class="skipped">no data</p>
{{- end}}
{{end -}}
<h2>Records</h2>
<table class="records">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows -}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end -}}
</table>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// writeIndex writes an HTML page that shows the charts and records.
func writeIndex(path string, charts []chartResult, recs []explog.Record) error {
	rows := make([][]string, len(recs))
	for i := range recs {
		rows[i] = recs[i].Cells()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = indexTemplate.Execute(f, struct {
		Charts  []chartResult
		Columns []string
		Rows    [][]string
	}{charts, explog.Columns, rows})
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
