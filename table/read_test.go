package table

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "sales.csv", "date,item,amount\n2024-01-01,apple,10\n2024-01-02,pear,20\n")
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(tbl.Columns) != 3 || tbl.Columns[1] != "item" {
		t.Fatalf("unexpected columns: %v", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Cell(1, 2) != "20" {
		t.Fatalf("unexpected cell: %q", tbl.Cell(1, 2))
	}
}

func TestReadCSVRaggedRowsArePadded(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\n4,5,6,7\n")
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if tbl.Cell(0, 2) != "" {
		t.Errorf("short row not padded: %q", tbl.Cell(0, 2))
	}
	if got := tbl.Cell(1, 2); got != "6" {
		t.Errorf("long row not truncated to header width: %q", got)
	}
}

func TestReadJSONPreservesColumnOrder(t *testing.T) {
	path := writeFile(t, "sales.json",
		`[{"date":"2024-01-01","item":"apple","amount":10.5},{"item":"pear","amount":3,"note":"late"}]`)
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	want := []string{"date", "item", "amount", "note"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("unexpected columns: %v", tbl.Columns)
	}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d: got %q want %q (all: %v)", i, tbl.Columns[i], c, tbl.Columns)
		}
	}
	if tbl.Cell(0, 2) != "10.5" {
		t.Errorf("numeric cell not rendered: %q", tbl.Cell(0, 2))
	}
	if tbl.Cell(1, 0) != "" {
		t.Errorf("missing field should be empty, got %q", tbl.Cell(1, 0))
	}
}

func TestReadJSONRejectsNonArray(t *testing.T) {
	path := writeFile(t, "bad.json", `{"date":"2024-01-01"}`)
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for non-array JSON")
	}
}

func TestReadPlist(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<array>
	<dict>
		<key>amount</key><real>12.5</real>
		<key>item</key><string>apple</string>
	</dict>
	<dict>
		<key>amount</key><integer>3</integer>
		<key>item</key><string>pear</string>
	</dict>
</array>
</plist>`
	path := writeFile(t, "sales.plist", content)
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("read plist: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	idx := tbl.ColumnIndex("item")
	if idx < 0 {
		t.Fatalf("item column missing: %v", tbl.Columns)
	}
	if tbl.Cell(1, idx) != "pear" {
		t.Errorf("unexpected cell: %q", tbl.Cell(1, idx))
	}
}

func TestReadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec(`create table orders (day text, item text, amount real)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`insert into orders values ('2024-01-01','apple',10),('2024-01-02','pear',20.5)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Columns[2] != "amount" {
		t.Fatalf("unexpected columns: %v", tbl.Columns)
	}
	if tbl.Cell(1, 2) != "20.5" {
		t.Errorf("unexpected amount cell: %q", tbl.Cell(1, 2))
	}
}

func TestReadSQLiteMultipleTablesNeedsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range []string{
		`create table a (x text)`,
		`create table b (y text)`,
		`insert into b values ('ok')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := Read(path); err == nil {
		t.Fatal("expected error without a table name")
	}
	tbl, err := ReadWith(path, ReadOptions{SQLiteTable: "b"})
	if err != nil {
		t.Fatalf("read named table: %v", err)
	}
	if tbl.Len() != 1 || tbl.Cell(0, 0) != "ok" {
		t.Fatalf("unexpected table content: %+v", tbl.Rows)
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "sales.xml", "<data/>")
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
