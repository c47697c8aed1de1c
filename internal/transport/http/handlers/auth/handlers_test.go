package authhandler

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Abcdef12", true},
		{"long valid", "CorrectHorse7Battery", true},
		{"too short", "Ab1", false},
		{"no upper", "abcdef12", false},
		{"no lower", "ABCDEF12", false},
		{"no digit", "Abcdefgh", false},
		{"leading space", " Abcdef12", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := validatePassword(tc.password); ok != tc.ok {
				t.Fatalf("validatePassword(%q) = %v, want %v", tc.password, ok, tc.ok)
			}
		})
	}
}

func TestGenerateTokenIsRandom(t *testing.T) {
	a, err := generateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := generateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("tokens must not repeat")
	}
	if len(a) < 32 {
		t.Fatalf("token too short: %d", len(a))
	}
}
