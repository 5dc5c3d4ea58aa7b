package login

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 12

// ErrWeakPassword is wrapped by every password policy failure.
var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordPolicy names every rule the password misses so the admin
// form can show it in one message.
func ValidatePasswordPolicy(password string) error {
	var missing []string
	if n := utf8.RuneCountInString(password); n < minPasswordLength {
		missing = append(missing, fmt.Sprintf("%d more characters", minPasswordLength-n))
	}

	classes := []struct {
		name string
		in   func(rune) bool
	}{
		{"an uppercase letter", unicode.IsUpper},
		{"a lowercase letter", unicode.IsLower},
		{"a digit", unicode.IsDigit},
		{"a symbol", func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }},
	}
	for _, c := range classes {
		if strings.IndexFunc(password, c.in) < 0 {
			missing = append(missing, c.name)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: needs %s", ErrWeakPassword, strings.Join(missing, ", "))
}
