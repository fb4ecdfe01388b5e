package svapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one flat object returned by a list command. Keys preserve the
// order they appear in the JSON document so that sheet columns come out in
// the order the API reports them.
type Record struct {
	Keys   []string
	Fields map[string]interface{}
}

// NewRecord creates an empty record
func NewRecord() Record {
	return Record{Fields: make(map[string]interface{})}
}

// Set stores a field value, appending the key on first use
func (r *Record) Set(key string, value interface{}) {
	if _, ok := r.Fields[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Fields[key] = value
}

// Get returns the value for key, or nil when the record has no such field
func (r Record) Get(key string) interface{} {
	return r.Fields[key]
}

// UnmarshalJSON decodes a JSON object into the record, keeping document
// key order. Nested arrays and objects are kept as their compact JSON text
// since list commands only nest free-form detail fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record is not a JSON object (got %v)", tok)
	}

	r.Keys = nil
	r.Fields = make(map[string]interface{})

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read record key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record key is not a string (got %v)", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read value of %q: %w", key, err)
		}
		r.Set(key, scalarValue(raw))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read record end: %w", err)
	}
	return nil
}

// scalarValue converts a raw JSON value into a cell-friendly Go value
func scalarValue(raw json.RawMessage) interface{} {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}

	switch t := v.(type) {
	case string:
		return t
	case bool:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case nil:
		return ""
	default:
		// array or object
		return string(bytes.TrimSpace(raw))
	}
}

// decodeRecords parses a command response body. List commands return a JSON
// array of objects; a few commands (lssystem among them) return one object,
// which is wrapped as a single record.
func decodeRecords(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse response array: %w", err)
		}
		return records, nil
	case '{':
		var record Record
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return nil, fmt.Errorf("failed to parse response object: %w", err)
		}
		return []Record{record}, nil
	default:
		return nil, fmt.Errorf("response is neither a JSON array nor an object")
	}
}
