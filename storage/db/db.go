// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db indexes converted result documents in a SQL database so
// they can be queried after a batch conversion.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/gatherperfdata/perfconv/resultdoc"
)

// DB is a high-level interface to a database of converted documents.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	findDocument   *sql.Stmt
	deleteOps      *sql.Stmt
	deleteDocument *sql.Stmt
	insertDocument *sql.Stmt
	insertOp       *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Documents (
	DocID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Name VARCHAR(255) NOT NULL,
	SuiteLabel VARCHAR(255),
	Revision BIGINT,
	VersionShort VARCHAR(255),
	VersionLong VARCHAR(255),
	Content {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}}
{{if not .sqlite3}}
	, UNIQUE INDEX (Name)
{{end}}
);
{{if .sqlite3}}
CREATE UNIQUE INDEX IF NOT EXISTS DocumentsName ON Documents(Name);
{{end}}
CREATE TABLE IF NOT EXISTS OpResults (
	DocID BIGINT UNSIGNED,
	Seq BIGINT UNSIGNED,
	TestLabel VARCHAR(255),
	OpLabel VARCHAR(255),
	Duration BIGINT,
	Value BIGINT,
	PRIMARY KEY (DocID, Seq),
{{if not .sqlite3}}
	INDEX (TestLabel(100), OpLabel(100)),
{{end}}
	FOREIGN KEY (DocID) REFERENCES Documents(DocID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS OpResultsLabels ON OpResults(TestLabel, OpLabel);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	for _, s := range []struct {
		stmt **sql.Stmt
		q    string
	}{
		{&db.findDocument, "SELECT DocID FROM Documents WHERE Name = ?"},
		{&db.deleteOps, "DELETE FROM OpResults WHERE DocID = ?"},
		{&db.deleteDocument, "DELETE FROM Documents WHERE DocID = ?"},
		{&db.insertDocument, "INSERT INTO Documents(Name, SuiteLabel, Revision, VersionShort, VersionLong, Content) VALUES (?, ?, ?, ?, ?, ?)"},
		{&db.insertOp, "INSERT INTO OpResults(DocID, Seq, TestLabel, OpLabel, Duration, Value) VALUES (?, ?, ?, ?, ?, ?)"},
	} {
		var err error
		if *s.stmt, err = db.sql.Prepare(s.q); err != nil {
			return fmt.Errorf("prepare %q: %v", s.q, err)
		}
	}
	return nil
}

// InsertDocument stores doc under name, replacing any document
// previously stored under the same name. It returns the new
// document's ID.
func (db *DB) InsertDocument(ctx context.Context, name string, doc *resultdoc.Document) (id int64, err error) {
	content, err := resultdoc.Marshal(doc)
	if err != nil {
		return 0, err
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var old int64
	switch err := tx.StmtContext(ctx, db.findDocument).QueryRowContext(ctx, name).Scan(&old); err {
	case nil:
		if _, err := tx.StmtContext(ctx, db.deleteOps).ExecContext(ctx, old); err != nil {
			return 0, err
		}
		if _, err := tx.StmtContext(ctx, db.deleteDocument).ExecContext(ctx, old); err != nil {
			return 0, err
		}
	case sql.ErrNoRows:
	default:
		return 0, err
	}

	var rev int64
	var short, long string
	if b := doc.BuildTested; b != nil {
		rev, short, long = b.Revision, b.VersionShort, b.VersionLong
	}
	res, err := tx.StmtContext(ctx, db.insertDocument).ExecContext(ctx, name, doc.SuiteLabel, rev, short, long, content)
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	insertOp := tx.StmtContext(ctx, db.insertOp)
	seq := 0
	for _, tr := range doc.TestResults {
		for _, op := range tr.OpResults {
			if _, err := insertOp.ExecContext(ctx, id, seq, tr.Label, op.Label, nullInt(op.Duration), nullInt(op.Value)); err != nil {
				return 0, err
			}
			seq++
		}
	}
	return id, nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// CountDocuments returns the number of documents stored in db.
func (db *DB) CountDocuments() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Documents").Scan(&n)
	return n, err
}

// An OpRow is one stored operation result.
type OpRow struct {
	Document string
	Revision int64
	Number   int64
}

// OpValues returns the numeric value (duration or value) of every
// stored operation op in test results labeled test, ordered by
// document revision and name.
func (db *DB) OpValues(ctx context.Context, test, op string) ([]OpRow, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT d.Name, d.Revision, COALESCE(o.Duration, o.Value)
FROM OpResults o JOIN Documents d ON o.DocID = d.DocID
WHERE o.TestLabel = ? AND o.OpLabel = ? AND COALESCE(o.Duration, o.Value) IS NOT NULL
ORDER BY d.Revision, d.Name, o.Seq`, test, op)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OpRow
	for rows.Next() {
		var r OpRow
		if err := rows.Scan(&r.Document, &r.Revision, &r.Number); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.findDocument, db.deleteOps, db.deleteDocument, db.insertDocument, db.insertOp} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
