package report

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/IBM/SVCheck/internal/exitcode"
)

// TestSystemSummary tests the friendly lssystem rendering
func TestSystemSummary(t *testing.T) {
	array := newTestArray(t, nil, nil)
	client := array.client()

	session, err := client.Authenticate(context.Background(), array.host, "superuser", "passw0rd")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	records, err := systemSummary(context.Background(), client, session)
	if err != nil {
		t.Fatalf("systemSummary() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]

	if record.Keys[0] != "Product name" {
		t.Errorf("first column = %q, want Product name", record.Keys[0])
	}
	if got := record.Get("Product name"); got != "IBM FlashSystem 7200" {
		t.Errorf("Product name = %v", got)
	}
	if got := record.Get("Serial"); got != "00000204A1C0" {
		t.Errorf("Serial = %v", got)
	}
	if got := record.Get("Code level"); got != "8.4.0.2 (build 152.23.2102111856000)" {
		t.Errorf("Code level = %v", got)
	}

	// Tier columns are expanded pairwise after the fixed columns
	if got := record.Get("tier0_flash_total"); got != "85.25TB" {
		t.Errorf("tier0_flash_total = %v, want 85.25TB", got)
	}
	if got := record.Get("tier0_flash_free"); got != "12.10TB" {
		t.Errorf("tier0_flash_free = %v, want 12.10TB", got)
	}
	if got := record.Get("tier_enterprise_total"); got != "22.35TB" {
		t.Errorf("tier_enterprise_total = %v, want 22.35TB", got)
	}
	n := len(record.Keys)
	if record.Keys[n-2] != "tier_enterprise_total" || record.Keys[n-1] != "tier_enterprise_free" {
		t.Errorf("tier columns not last: %v", record.Keys[n-2:])
	}
}

// TestSystemSummary_MalformedPayload tests model decode failure classification
func TestSystemSummary_MalformedPayload(t *testing.T) {
	array := newTestArray(t, map[string]http.HandlerFunc{
		"lssystem": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"product_name": ["not", "a", "string"]}`))
		},
	}, nil)
	client := array.client()

	session, err := client.Authenticate(context.Background(), array.host, "superuser", "passw0rd")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	_, err = systemSummary(context.Background(), client, session)
	if !errors.Is(err, exitcode.ErrModelLoad) {
		t.Errorf("error = %v, want ErrModelLoad", err)
	}
	if got := exitcode.FromError(err); got != exitcode.ModelLoadError {
		t.Errorf("exit code = %d, want %d", got, exitcode.ModelLoadError)
	}
}
