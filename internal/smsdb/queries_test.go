package smsdb

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildQueryNoFilter(t *testing.T) {
	for _, g := range []Generation{GenerationIOS5, GenerationIOS6} {
		t.Run(g.String(), func(t *testing.T) {
			q, err := BuildQuery(g, Filter{})
			if err != nil {
				t.Fatalf("BuildQuery: %v", err)
			}
			if q.Args == nil || len(q.Args) != 0 {
				t.Errorf("Args = %#v, want empty non-nil slice", q.Args)
			}
			if strings.Contains(q.SQL, "TRUNC") {
				t.Errorf("unfiltered query uses TRUNC:\n%s", q.SQL)
			}
			if !strings.Contains(q.SQL, "ORDER BY") {
				t.Errorf("query is not ordered:\n%s", q.SQL)
			}
		})
	}
}

func TestBuildQueryIOS5(t *testing.T) {
	q, err := BuildQuery(GenerationIOS5, Filter{
		Numbers: []string{"+1 (555) 123-4567"},
		Emails:  []string{"a@b.com"},
	})
	if err != nil {
		t.Fatalf("BuildQuery: %v", err)
	}

	wantArgs := []any{"5551234567", "5551234567", "a@b.com"}
	if diff := cmp.Diff(wantArgs, q.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	wantTail := "FROM message\n" +
		"WHERE TRUNC(address) = ?\n" +
		"OR TRUNC(madrid_handle) = ?\n" +
		"OR madrid_handle = ?\n" +
		"ORDER BY rowid"
	if !strings.HasSuffix(q.SQL, wantTail) {
		t.Errorf("SQL does not end with filter clauses:\n%s", q.SQL)
	}
	if got := strings.Count(q.SQL, "?"); got != len(q.Args) {
		t.Errorf("placeholders = %d, args = %d", got, len(q.Args))
	}
}

func TestBuildQueryIOS6(t *testing.T) {
	q, err := BuildQuery(GenerationIOS6, Filter{
		Numbers: []string{"15551234567", "555-9876"},
		Emails:  []string{"a@b.com"},
	})
	if err != nil {
		t.Fatalf("BuildQuery: %v", err)
	}

	wantArgs := []any{"5551234567", "5559876", "a@b.com"}
	if diff := cmp.Diff(wantArgs, q.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	wantTail := "m.handle_id = h.rowid\n" +
		"AND\n" +
		"(TRUNC(h.id) = ?\n" +
		"OR TRUNC(h.id) = ?\n" +
		"OR h.id = ?)\n" +
		"ORDER BY m.rowid"
	if !strings.HasSuffix(q.SQL, wantTail) {
		t.Errorf("SQL does not end with filter group:\n%s", q.SQL)
	}
}

func TestBuildQueryUnknownGeneration(t *testing.T) {
	_, err := BuildQuery(GenerationUnknown, Filter{})
	if !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("err = %v, want ErrUnknownSchema", err)
	}
}

func TestSQLTrunc(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"+1 (555) 123-4567", "5551234567"},
		{[]byte("555-1234"), "5551234"},
		{[]byte(nil), nil},
		{int64(15551234567), "5551234567"},
		{nil, nil},
		{3.5, nil},
	}
	for _, tt := range tests {
		if got := sqlTrunc(tt.in); got != tt.want {
			t.Errorf("sqlTrunc(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
