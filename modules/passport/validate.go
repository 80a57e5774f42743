package passport

import (
	"errors"
	"fmt"

	domain "github.com/example/grantmatch/domain/passport"
)

// ErrRecognition is returned when recognized data is incomplete or malformed.
var ErrRecognition = errors.New("passport recognition failed")

// ValidatePassport checks the required fields and the series and number formats.
func ValidatePassport(f *domain.Fields) error {
	required := []struct {
		name  string
		value string
	}{
		{"series", f.Series},
		{"number", f.Number},
		{"last_name", f.LastName},
		{"first_name", f.FirstName},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: missing required field: %s", ErrRecognition, r.name)
		}
	}

	if !isDigits(f.Series, 4) {
		return fmt.Errorf("%w: invalid passport series format", ErrRecognition)
	}
	if !isDigits(f.Number, 6) {
		return fmt.Errorf("%w: invalid passport number format", ErrRecognition)
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
