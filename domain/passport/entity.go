package passport

// Passport holds identity-document data captured for a user, either typed in
// or recognized from page photos.
type Passport struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"index;not null;type:text" json:"user_id"`

	Series           *string `gorm:"size:4" json:"series"`
	Number           *string `gorm:"size:6" json:"number"`
	LastName         *string `json:"last_name"`
	FirstName        *string `json:"first_name"`
	MiddleName       *string `json:"middle_name"`
	BirthDate        *string `json:"birth_date"`
	BirthPlace       *string `json:"birth_place"`
	IssueDate        *string `json:"issue_date"`
	IssuingAuthority *string `json:"issuing_authority"`
	DepartmentCode   *string `json:"department_code"`

	RegistrationAddress *string `json:"registration_address"`
	RegistrationDate    *string `json:"registration_date"`
}

// TableName returns the table name for Passport.
func (Passport) TableName() string {
	return "passports"
}

// Fields is the recognizable content of a passport, as produced by OCR.
type Fields struct {
	Series              string `json:"series"`
	Number              string `json:"number"`
	LastName            string `json:"last_name"`
	FirstName           string `json:"first_name"`
	MiddleName          string `json:"middle_name"`
	BirthDate           string `json:"birth_date"`
	BirthPlace          string `json:"birth_place"`
	IssueDate           string `json:"issue_date"`
	IssuingAuthority    string `json:"issuing_authority"`
	DepartmentCode      string `json:"department_code"`
	RegistrationAddress string `json:"registration_address,omitempty"`
	RegistrationDate    string `json:"registration_date,omitempty"`
}
