package alias

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wesm/smsbackup/internal/address"
)

func identity(s string) string { return s }

func TestParse(t *testing.T) {
	m, err := Parse([]string{
		"+1 (555) 123-4567=Bob",
		"Alice@Example.com=Alice",
		"555-1234=Short",
	})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := Map{
		"5551234567":        "Bob",
		"Alice@Example.com": "Alice",
		"5551234":           "Short",
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Parse(nil) = %v, want empty", m)
	}
	if got := m.Resolve("5551234567", address.FormatPhone, "5551234567"); got != "(555) 123-4567" {
		t.Errorf("Resolve on empty map = %q", got)
	}
}

func TestParseLaterDuplicateWins(t *testing.T) {
	m, err := Parse([]string{"5551234567=Bob", "1-555-123-4567=Robert"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := m["5551234567"]; got != "Robert" {
		t.Errorf("m[5551234567] = %q, want %q", got, "Robert")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		pair string
	}{
		{"no equals", "5551234567"},
		{"two equals", "5551234567=Bob=Jr"},
		{"empty name", "5551234567="},
		{"empty key", "=Bob"},
		{"letters in phone", "555-CALL=Bob"},
		{"too few digits", "12=Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]string{tt.pair})
			var cfgErr *address.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Parse(%q) error = %v, want *address.ConfigError", tt.pair, err)
			}
			if cfgErr.Option != "--alias" {
				t.Errorf("Option = %q, want --alias", cfgErr.Option)
			}
		})
	}
}

func TestEmailKeyIsCaseSensitive(t *testing.T) {
	m, err := Parse([]string{"Bob@Example.com=Bob"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := m.Resolve("bob@example.com", identity, "bob@example.com"); got != "bob@example.com" {
		t.Errorf("Resolve(lowercase) = %q, want fallback", got)
	}
	if got := m.Resolve("Bob@Example.com", identity, "Bob@Example.com"); got != "Bob" {
		t.Errorf("Resolve(exact) = %q, want Bob", got)
	}
}

func TestFromTable(t *testing.T) {
	m, err := FromTable(map[string]string{
		"(555) 123-4567": "Bob",
		"a@b.com":        "Ann",
	})
	if err != nil {
		t.Fatalf("FromTable() error: %v", err)
	}
	want := Map{"5551234567": "Bob", "a@b.com": "Ann"}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("FromTable() mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromTable(map[string]string{"abc": "Nope"}); err == nil {
		t.Error("FromTable(invalid phone) should fail")
	}
}

func TestMerge(t *testing.T) {
	base := Map{"5551234567": "Bob", "a@b.com": "Ann"}
	override := Map{"5551234567": "Robert"}
	got := base.Merge(override)
	want := Map{"5551234567": "Robert", "a@b.com": "Ann"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
	if base["5551234567"] != "Bob" {
		t.Error("Merge() modified the receiver")
	}
}

func TestNames(t *testing.T) {
	m := Map{"1": "Zed", "2": "Ann"}
	if diff := cmp.Diff([]string{"Ann", "Zed"}, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestLen(t *testing.T) {
	var empty Map
	if empty.Len() != 0 {
		t.Errorf("nil Map Len() = %d, want 0", empty.Len())
	}
	m, err := Parse([]string{"+1 555 123 4567=Bob", "5551234567=Robert", "a@b.com=Ann"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}
