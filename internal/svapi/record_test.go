package svapi

import (
	"encoding/json"
	"testing"
)

// TestRecord_UnmarshalJSON tests ordered key decoding and value handling
func TestRecord_UnmarshalJSON(t *testing.T) {
	input := `{"id":"0","name":"host0","port_count":4,"online":true,"owner":null,"WWPN":["500507680","500507681"]}`

	var record Record
	if err := json.Unmarshal([]byte(input), &record); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	wantKeys := []string{"id", "name", "port_count", "online", "owner", "WWPN"}
	if len(record.Keys) != len(wantKeys) {
		t.Fatalf("got %d keys, want %d", len(record.Keys), len(wantKeys))
	}
	for i, key := range wantKeys {
		if record.Keys[i] != key {
			t.Errorf("Keys[%d] = %q, want %q", i, record.Keys[i], key)
		}
	}

	if got := record.Get("id"); got != "0" {
		t.Errorf("id = %v (%T), want \"0\"", got, got)
	}
	if got := record.Get("port_count"); got != int64(4) {
		t.Errorf("port_count = %v (%T), want int64(4)", got, got)
	}
	if got := record.Get("online"); got != true {
		t.Errorf("online = %v, want true", got)
	}
	if got := record.Get("owner"); got != "" {
		t.Errorf("owner = %v, want empty string for null", got)
	}
	if got := record.Get("WWPN"); got != `["500507680","500507681"]` {
		t.Errorf("WWPN = %v, want raw JSON text", got)
	}
}

// TestRecord_UnmarshalJSON_NotObject tests rejection of non-object input
func TestRecord_UnmarshalJSON_NotObject(t *testing.T) {
	var record Record
	if err := json.Unmarshal([]byte(`[1,2]`), &record); err == nil {
		t.Error("expected error for array input")
	}
}

// TestDecodeRecords tests array, single-object, and malformed bodies
func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{
			name: "array of objects",
			body: `[{"id":"0"},{"id":"1"},{"id":"2"}]`,
			want: 3,
		},
		{
			name: "single object wrapped",
			body: `{"id":"0","name":"cluster0"}`,
			want: 1,
		},
		{
			name: "empty array",
			body: `[]`,
			want: 0,
		},
		{
			name: "empty body",
			body: ``,
			want: 0,
		},
		{
			name:    "scalar body",
			body:    `"nope"`,
			wantErr: true,
		},
		{
			name:    "truncated array",
			body:    `[{"id":"0"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := decodeRecords([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(records) != tt.want {
				t.Errorf("got %d records, want %d", len(records), tt.want)
			}
		})
	}
}

// TestRecord_Set tests key order stability on repeated sets
func TestRecord_Set(t *testing.T) {
	record := NewRecord()
	record.Set("a", 1)
	record.Set("b", 2)
	record.Set("a", 3)

	if len(record.Keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(record.Keys))
	}
	if record.Keys[0] != "a" || record.Keys[1] != "b" {
		t.Errorf("Keys = %v, want [a b]", record.Keys)
	}
	if record.Get("a") != 3 {
		t.Errorf("a = %v, want 3", record.Get("a"))
	}
}
