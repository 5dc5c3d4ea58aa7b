package login

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name    string
		pwd     string
		missing []string
	}{
		{name: "valid mixed", pwd: "Dispatch-2024x"},
		{name: "arabic letters count as runes", pwd: "مرحبامرحبا Ab1!"},
		{name: "short", pwd: "Ab1!", missing: []string{"8 more characters"}},
		{name: "letters only", pwd: "abcdefghijklmnop", missing: []string{"an uppercase letter", "a digit", "a symbol"}},
		{name: "missing symbol", pwd: "Abcdefghijk1", missing: []string{"a symbol"}},
		{name: "missing upper", pwd: "abcdefghij1!", missing: []string{"an uppercase letter"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tc.pwd)
			if len(tc.missing) == 0 {
				if err != nil {
					t.Fatalf("expected valid password, got error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}
			for _, m := range tc.missing {
				if !strings.Contains(err.Error(), m) {
					t.Fatalf("error %q does not mention %q", err, m)
				}
			}
		})
	}
}
