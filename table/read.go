package table

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"howett.net/plist"
	_ "modernc.org/sqlite"

	"salesreport/sqliteutil"
)

// ReadOptions tweaks format-specific behavior.
type ReadOptions struct {
	// SQLiteTable names the table to read from a SQLite input. When empty
	// the single non-internal table is auto-detected.
	SQLiteTable string
}

// Read loads a tabular dataset, dispatching on the file extension.
func Read(path string) (*Table, error) {
	return ReadWith(path, ReadOptions{})
}

// ReadWith is Read with explicit options.
func ReadWith(path string, opts ReadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not found: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".json":
		return readJSON(path)
	case ".plist":
		return readPlist(path)
	case ".db", ".sqlite", ".sqlite3":
		return readSQLite(path, opts.SQLiteTable)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv, .json, .plist or .db/.sqlite)", ext)
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV %s has no header row", path)
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, normalizeRow(rec, len(header)))
	}
	return &Table{Columns: header, Rows: rows}, nil
}

// readJSON decodes an array of flat objects. The iterator API is used so
// the column order follows first appearance in the document instead of
// Go map iteration order.
func readJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data)
	if iter.WhatIsNext() != jsoniter.ArrayValue {
		return nil, fmt.Errorf("JSON %s: expected a top-level array of records", path)
	}

	var columns []string
	colIdx := make(map[string]int)
	var records []map[string]string

	for iter.ReadArray() {
		if iter.WhatIsNext() != jsoniter.ObjectValue {
			return nil, fmt.Errorf("JSON %s: array elements must be objects", path)
		}
		rec := make(map[string]string)
		for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
			if _, ok := colIdx[field]; !ok {
				colIdx[field] = len(columns)
				columns = append(columns, field)
			}
			rec[field] = cellString(iter.Read())
		}
		records = append(records, rec)
	}
	if iter.Error != nil {
		return nil, fmt.Errorf("failed to parse JSON %s: %w", path, iter.Error)
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for name, idx := range colIdx {
			row[idx] = rec[name]
		}
		rows[i] = row
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

func readPlist(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []map[string]any
	if _, err := plist.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse plist %s: %w", path, err)
	}

	// plist dicts carry no stable order; columns follow first appearance
	// per record, which at least keeps single-schema exports intact.
	var columns []string
	colIdx := make(map[string]int)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := colIdx[k]; !ok {
				colIdx[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for name, idx := range colIdx {
			if v, ok := rec[name]; ok {
				row[idx] = cellString(v)
			}
		}
		rows[i] = row
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// readSQLite reads a whole table from a SQLite file, read-only. This is an
// input format, not a storage layer: the file is never written.
func readSQLite(path, tableName string) (*Table, error) {
	if err := sqliteutil.QuickCheck(path, 2*time.Second); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %s: %w", path, err)
	}
	defer db.Close()

	if tableName == "" {
		tableName, err = detectSQLiteTable(db, path)
		if err != nil {
			return nil, err
		}
	}

	rows, err := db.Query(fmt.Sprintf(`select * from %q`, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s from %s: %w", tableName, path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}

	var out [][]string
	values := make([]any, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", tableName, err)
	}
	return &Table{Columns: columns, Rows: out}, nil
}

func detectSQLiteTable(db *sql.DB, path string) (string, error) {
	rows, err := db.Query(`select name from sqlite_master where type='table' and name not like 'sqlite_%' order by name`)
	if err != nil {
		return "", fmt.Errorf("failed to list tables in %s: %w", path, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return "", fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to list tables in %s: %w", path, err)
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("SQLite %s contains no tables", path)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("SQLite %s contains multiple tables (%s); pick one via config", path, strings.Join(names, ", "))
	}
}
