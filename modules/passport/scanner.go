package passport

import (
	"context"
)

// Scanner turns page photos into a validated, unsaved passport draft.
type Scanner struct {
	recognizer Recognizer
}

// NewScanner creates a Scanner over recognizer.
func NewScanner(recognizer Recognizer) *Scanner {
	return &Scanner{recognizer: recognizer}
}

// Scan recognizes and validates the pages. The result is returned to the
// user for review and is not stored.
func (s *Scanner) Scan(ctx context.Context, mainPage Image, registrationPage *Image) (*Input, error) {
	fields, err := s.recognizer.Recognize(ctx, mainPage, registrationPage)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassport(fields); err != nil {
		return nil, err
	}

	return &Input{
		Series:              &fields.Series,
		Number:              &fields.Number,
		LastName:            &fields.LastName,
		FirstName:           &fields.FirstName,
		MiddleName:          optional(fields.MiddleName),
		BirthDate:           optional(fields.BirthDate),
		BirthPlace:          optional(fields.BirthPlace),
		IssueDate:           optional(fields.IssueDate),
		IssuingAuthority:    optional(fields.IssuingAuthority),
		DepartmentCode:      optional(fields.DepartmentCode),
		RegistrationAddress: optional(fields.RegistrationAddress),
		RegistrationDate:    optional(fields.RegistrationDate),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
