package passport

import (
	"errors"
	"strings"
	"testing"

	domain "github.com/example/grantmatch/domain/passport"
)

func validFields() domain.Fields {
	return domain.Fields{
		Series:    "4509",
		Number:    "123456",
		LastName:  "Иванов",
		FirstName: "Иван",
	}
}

func TestValidatePassport(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *domain.Fields)
		wantMsg string
	}{
		{"valid", func(*domain.Fields) {}, ""},
		{"missing series", func(f *domain.Fields) { f.Series = "" }, "missing required field: series"},
		{"missing number", func(f *domain.Fields) { f.Number = "" }, "missing required field: number"},
		{"missing last name", func(f *domain.Fields) { f.LastName = "" }, "missing required field: last_name"},
		{"missing first name", func(f *domain.Fields) { f.FirstName = "" }, "missing required field: first_name"},
		{"short series", func(f *domain.Fields) { f.Series = "450" }, "invalid passport series format"},
		{"series with space", func(f *domain.Fields) { f.Series = "45 0" }, "invalid passport series format"},
		{"letters in number", func(f *domain.Fields) { f.Number = "12345a" }, "invalid passport number format"},
		{"long number", func(f *domain.Fields) { f.Number = "1234567" }, "invalid passport number format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			err := ValidatePassport(&f)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("ValidatePassport() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrRecognition) {
				t.Errorf("ValidatePassport() error = %v, want %v", err, ErrRecognition)
			}
			if err != nil && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ValidatePassport() error = %v, want message %q", err, tt.wantMsg)
			}
		})
	}
}
