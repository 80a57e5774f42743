package user

import (
	"time"

	"gorm.io/gorm"
)

// Type distinguishes individual accounts from organization accounts.
type Type string

const (
	TypeIndividual   Type = "INDIVIDUAL"
	TypeOrganization Type = "ORGANIZATION"
)

// DefaultProfileImageURL is assigned to users who never uploaded an image.
const DefaultProfileImageURL = "https://www.profileimageurl.com"

// User represents an account. Individuals log in by username or email,
// organizations additionally by INN (tax ID).
type User struct {
	ID               string         `gorm:"primaryKey;type:text" json:"id"`
	Name             string         `gorm:"size:150" json:"name"`
	Username         *string        `gorm:"uniqueIndex;size:20" json:"username,omitempty"`
	Email            *string        `gorm:"uniqueIndex;size:50" json:"email,omitempty"`
	Phone            *string        `gorm:"index;size:12" json:"phone,omitempty"`
	INN              *string        `gorm:"index;size:12" json:"inn,omitempty"`
	OrganizationName *string        `gorm:"size:150" json:"organization_name,omitempty"`
	UserType         Type           `gorm:"not null;default:INDIVIDUAL;size:16" json:"user_type"`
	PasswordHash     string         `gorm:"not null;type:text" json:"-"`
	ProfileImageURL  string         `gorm:"not null" json:"profile_image_url"`
	IsSuperuser      bool           `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Subject returns the value placed in the "sub" claim of this user's tokens:
// the username when set, otherwise the email. A subject is never an INN.
func (u *User) Subject() string {
	switch {
	case u.Username != nil && *u.Username != "":
		return *u.Username
	case u.Email != nil && *u.Email != "":
		return *u.Email
	default:
		return u.ID
	}
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Field names a lookup column.
type Field string

const (
	FieldID       Field = "id"
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldINN      Field = "inn"
	FieldPhone    Field = "phone"
)

// Filter selects users by a single column value.
type Filter struct {
	Field Field
	Value string
}

// By builds a Filter.
func By(field Field, value string) Filter {
	return Filter{Field: field, Value: value}
}

// StrPtr returns nil for an empty string and &s otherwise.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
