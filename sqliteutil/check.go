// Package sqliteutil verifies SQLite inputs before ingest. Reports are
// generated from files handed over by other systems, so a cheap integrity
// check up front beats a confusing scan error halfway through.
package sqliteutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// QuickCheck opens the database read-only and runs pragma quick_check,
// bounded by timeout. A non-ok report or a timeout comes back as an error;
// the file is never modified.
func QuickCheck(path string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("quick_check: open %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(ctx, "pragma quick_check")
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("quick_check: %s timed out after %s", path, timeout)
		}
		return fmt.Errorf("quick_check: %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return fmt.Errorf("quick_check: %s: %w", path, err)
		}
		if strings.TrimSpace(status) != "ok" {
			return fmt.Errorf("quick_check: %s reported %q", path, status)
		}
	}
	return rows.Err()
}
