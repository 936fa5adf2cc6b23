// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expstore keeps experiment records in a SQL database.
package expstore

import (
	"database/sql"
	"fmt"

	"github.com/pimbench/pimbench/explog"
)

// A Store holds one set of experiment records.
// It's safe for concurrent use by multiple goroutines.
type Store struct {
	sql *sql.DB // underlying database connection
}

// OpenSQL creates a Store backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. The schema is written in
// SQLite syntax.
//
// The caller must import the driver.
func OpenSQL(driverName, dataSourceName string) (*Store, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a new database.
	db.SetMaxOpenConns(1)
	s := &Store{sql: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

var createStmts = []string{
	`CREATE TABLE IF NOT EXISTS ExperimentRecords (
	RecordID INTEGER PRIMARY KEY,
	ExpType TEXT NOT NULL,
	Batch INTEGER,
	SeqLen INTEGER,
	HeadDim INTEGER,
	NumHeads INTEGER,
	Tasklets INTEGER,
	HostMS REAL,
	DPUMS REAL NOT NULL,
	Allocated INTEGER,
	Line INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS ExperimentRecordsType ON ExperimentRecords(ExpType)`,
}

// createTables creates any missing tables and indexes.
func (s *Store) createTables() error {
	for _, q := range createStmts {
		if _, err := s.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

const insertQuery = `INSERT INTO ExperimentRecords
	(RecordID, ExpType, Batch, SeqLen, HeadDim, NumHeads, Tasklets, HostMS, DPUMS, Allocated, Line)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceAll replaces the stored records with recs. RecordID is the
// index of the record in recs, so reading them back preserves order.
func (s *Store) ReplaceAll(recs []explog.Record) (err error) {
	tx, err := s.sql.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.Exec("DELETE FROM ExperimentRecords"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	insert, err := tx.Prepare(insertQuery)
	if err != nil {
		return err
	}
	defer insert.Close()
	for i := range recs {
		r := &recs[i]
		if !r.DPUMS.Valid {
			return fmt.Errorf("record %d (%v) has no DPU time", i, r)
		}
		if _, err := insert.Exec(i, string(r.Type), r.Batch, r.SeqLen, r.HeadDim, r.NumHeads,
			r.Tasklets, r.HostMS, r.DPUMS, r.Allocated, r.Line); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Records returns all stored records in their original order.
func (s *Store) Records() ([]explog.Record, error) {
	rows, err := s.sql.Query(`SELECT ExpType, Batch, SeqLen, HeadDim, NumHeads, Tasklets, HostMS, DPUMS, Allocated, Line
		FROM ExperimentRecords ORDER BY RecordID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []explog.Record
	for rows.Next() {
		var r explog.Record
		var typ string
		if err := rows.Scan(&typ, &r.Batch, &r.SeqLen, &r.HeadDim, &r.NumHeads, &r.Tasklets,
			&r.HostMS, &r.DPUMS, &r.Allocated, &r.Line); err != nil {
			return nil, err
		}
		r.Type = explog.ExpType(typ)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// CountRecords returns the number of stored records of type t, or of
// all types if t is empty.
func (s *Store) CountRecords(t explog.ExpType) (int, error) {
	var n int
	var err error
	if t == "" {
		err = s.sql.QueryRow("SELECT COUNT(*) FROM ExperimentRecords").Scan(&n)
	} else {
		err = s.sql.QueryRow("SELECT COUNT(*) FROM ExperimentRecords WHERE ExpType = ?", string(t)).Scan(&n)
	}
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (s *Store) Close() error {
	return s.sql.Close()
}
