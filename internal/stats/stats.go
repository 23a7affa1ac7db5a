// Package stats writes the error-type histogram of a run as tab-separated
// text, optionally persists it to SQLite, and recounts existing annotation
// files.
package stats

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/m2"
	"github.com/annotext/errant/core/sqlite"
)

// WriteTSV writes `label<TAB>count` lines in sorted label order.
func WriteTSV(w io.Writer, counts map[string]int) error {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", label, counts[label]); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the histogram to a file.
func WriteFile(path string, counts map[string]int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := WriteTSV(f, counts); err != nil {
		f.Close()
		return errors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS error_counts (
	run_id     TEXT NOT NULL,
	error_type TEXT NOT NULL,
	count      INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (run_id, error_type)
)`

// SaveDB appends the histogram of one run to a SQLite database, creating the
// schema on first use.
func SaveDB(path, runID string, counts map[string]int) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer db.Close()
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "create error_counts table")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	err = withTx(db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			"INSERT OR REPLACE INTO error_counts (run_id, error_type, count, created_at) VALUES (?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for label, count := range counts {
			if _, err := stmt.Exec(runID, label, count, now); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "save error counts")
}

func withTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// FromM2 recounts the error-type histogram of an existing annotation file.
// Noop sentinel lines are excluded.
func FromM2(r io.Reader) (map[string]int, error) {
	blocks, err := m2.Parse(r)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, block := range blocks {
		for _, e := range block.Edits {
			if e.IsNoop() {
				continue
			}
			counts[e.Type]++
		}
	}
	return counts, nil
}
