package excel

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/IBM/SVCheck/internal/svapi"
	"github.com/xuri/excelize/v2"
)

func mustRecords(t *testing.T, body string) []svapi.Record {
	t.Helper()
	var records []svapi.Record
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		t.Fatalf("failed to build records: %v", err)
	}
	return records
}

// saveAndReopen round-trips the workbook through a temp file
func saveAndReopen(t *testing.T, w *Workbook) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// TestAddSheet_UnionColumns tests the column union and missing-key cells
func TestAddSheet_UnionColumns(t *testing.T) {
	w, err := NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	records := mustRecords(t, `[{"a":1,"b":2},{"a":3}]`)
	if err := w.AddSheet("lsvdisk", records); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}

	f := saveAndReopen(t, w)
	rows, err := f.GetRows("lsvdisk")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "a" || rows[0][1] != "b" {
		t.Errorf("header = %v, want [a b]", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "2" {
		t.Errorf("row 1 = %v, want [1 2]", rows[1])
	}
	if rows[2][0] != "3" {
		t.Errorf("row 2 = %v, want first cell 3", rows[2])
	}
	// The missing b cell must render empty
	if len(rows[2]) > 1 && rows[2][1] != "" {
		t.Errorf("row 2 b cell = %q, want empty", rows[2][1])
	}
}

// TestAddSheet_EmptyResponse tests that zero records still yield a sheet
func TestAddSheet_EmptyResponse(t *testing.T) {
	w, err := NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	if err := w.AddSheet("lspartnership", nil); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}

	f := saveAndReopen(t, w)
	list := f.GetSheetList()
	if len(list) != 1 || list[0] != "lspartnership" {
		t.Errorf("sheet list = %v, want [lspartnership]", list)
	}
	rows, err := f.GetRows("lspartnership")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows on empty sheet, want 0", len(rows))
	}
}

// TestAddSheet_Order tests that sheet order is insertion order
func TestAddSheet_Order(t *testing.T) {
	w, err := NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	names := []string{"lssystem", "lsnodecanister", "lsvdisk", "lshost"}
	for _, name := range names {
		if err := w.AddSheet(name, mustRecords(t, `[{"id":"0"}]`)); err != nil {
			t.Fatalf("AddSheet(%s) error = %v", name, err)
		}
	}

	f := saveAndReopen(t, w)
	list := f.GetSheetList()
	if len(list) != len(names) {
		t.Fatalf("got %d sheets, want %d", len(list), len(names))
	}
	for i, name := range names {
		if list[i] != name {
			t.Errorf("sheet[%d] = %q, want %q", i, list[i], name)
		}
	}
}

// TestAddSheet_Collision tests that sanitization collisions fail loudly
func TestAddSheet_Collision(t *testing.T) {
	w, err := NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	if err := w.AddSheet("event:log", nil); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}
	err = w.AddSheet("event/log", nil)
	if err == nil {
		t.Fatal("expected collision error")
	}
	if !errors.Is(err, exitcode.ErrExcelWrite) {
		t.Errorf("error = %v, want ErrExcelWrite", err)
	}
}

// TestSanitizeSheetName tests name sanitization rules
func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain name untouched",
			in:   "lsvdisk",
			want: "lsvdisk",
		},
		{
			name: "forbidden characters stripped",
			in:   `ls:v\d/i?s*k[]`,
			want: "lsvdisk",
		},
		{
			name: "long name truncated",
			in:   "lshostclustervolumemapandthensome",
			want: "lshostclustervolumemapandthenso",
		},
		{
			name: "apostrophes trimmed",
			in:   "'quoted'",
			want: "quoted",
		},
		{
			name: "empty falls back",
			in:   "",
			want: "Sheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSheetName(tt.in); got != tt.want {
				t.Errorf("SanitizeSheetName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestRoundTrip tests that written cells read back unchanged
func TestRoundTrip(t *testing.T) {
	w, err := NewWorkbook()
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	records := mustRecords(t, `[
		{"id":"0","name":"vdisk0","capacity":"100.00GB","status":"online"},
		{"id":"1","name":"vdisk1","status":"offline"},
		{"id":"2","name":"vdisk2","capacity":"50.00GB","IO_group_id":"0"}
	]`)
	if err := w.AddSheet("lsvdisk", records); err != nil {
		t.Fatalf("AddSheet() error = %v", err)
	}

	f := saveAndReopen(t, w)
	rows, err := f.GetRows("lsvdisk")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	header := rows[0]
	for i, record := range records {
		row := rows[i+1]
		for j, column := range header {
			want := ""
			if value, ok := record.Fields[column]; ok {
				want = value.(string)
			}
			got := ""
			if j < len(row) {
				got = row[j]
			}
			if got != want {
				t.Errorf("cell (%d,%s) = %q, want %q", i+1, column, got, want)
			}
		}
	}
}
