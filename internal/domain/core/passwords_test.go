package core

import (
	"strings"
	"testing"
)

func TestGenerateTempPassword(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		password, err := GenerateTempPassword()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(password) != tempPasswordLength {
			t.Fatalf("expected length %d, got %d", tempPasswordLength, len(password))
		}
		for _, r := range password {
			if !strings.ContainsRune(tempPasswordAlphabet, r) {
				t.Fatalf("unexpected character %q in password", r)
			}
		}
		if _, dup := seen[password]; dup {
			t.Fatalf("duplicate password generated: %s", password)
		}
		seen[password] = struct{}{}
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected result: %v", got)
	}
}
