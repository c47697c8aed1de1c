package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParseDate("2026-03-01T09:30:00Z")
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if got.Hour() != 9 {
		t.Fatalf("expected hour 9, got %d", got.Hour())
	}

	if _, err := ParseDate("01/03/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Required("email", " ", "email is required")
	v.Enum("role", "owner", []string{"admin", "employee"}, "unknown role")
	v.Enum("status", "ADMIN", []string{"admin"}, "should not fire, matching is case-insensitive")

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), issues)
	}
	if issues[0].Field != "email" || issues[1].Field != "name" || issues[2].Field != "role" {
		t.Fatalf("expected issues sorted by field, got %v", issues)
	}

	// Enum with a case-insensitive match must not add an issue.
	clean := NewValidator()
	clean.Enum("role", "ADMIN", []string{"admin"}, "unknown role")
	if clean.HasIssues() {
		t.Fatal("expected no issue for case-insensitive enum match")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, _ := v.Date("start", "2026-03-10")
	end, _ := v.Date("end", "2026-03-01")
	v.DateOrder("start", start, "end", end)
	if !v.HasIssues() {
		t.Fatal("expected issues when end precedes start")
	}
}
