// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// github.com/gatherperfdata/perfconv/storage/db.OpenSQL. It must be
// imported for its side effects.
package sqlite3

import (
	"database/sql"

	"github.com/gatherperfdata/perfconv/storage/db"
	"github.com/mattn/go-sqlite3"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(sqldb *sql.DB) error {
		// Each connection to ":memory:" is a separate database, and
		// sqlite serializes writers anyway.
		sqldb.SetMaxOpenConns(1)
		sqldb.Driver().(*sqlite3.SQLiteDriver).ConnectHook = func(c *sqlite3.SQLiteConn) error {
			_, err := c.Exec("PRAGMA foreign_keys = ON", nil)
			return err
		}
		return nil
	})
}
