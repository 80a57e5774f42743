// Package catalog holds the grant-matching entities: startups, grant
// programs, parsed grant listings and grant questionnaires.
package catalog

import (
	"time"
)

// Program is a grant program the recommender matches startups against.
type Program struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	URL         string    `gorm:"size:255;not null" json:"url"`
	Description string    `gorm:"not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for Program.
func (Program) TableName() string {
	return "program"
}

// Startup is a startup profile.
type Startup struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StartupID       *string   `gorm:"uniqueIndex;size:10" json:"startup_id"`
	Stage           *string   `gorm:"size:50" json:"stage"`
	Industry        *string   `gorm:"size:50" json:"industry"`
	Revenue         *int64    `json:"revenue"`
	RequiredFunding *int64    `json:"required_funding"`
	Location        *string   `gorm:"size:100" json:"location"`
	WorkExperience  *int      `json:"work_experience"`
	TeamSize        *int      `json:"team_size"`
	InnovationFocus *string   `gorm:"size:50" json:"innovation_focus"`
	Description     *string   `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName returns the table name for Startup.
func (Startup) TableName() string {
	return "startup"
}

// Grant is a grant listing collected from external sources.
type Grant struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL             *string   `json:"image_url"`
	GrantMin             *int64    `json:"grant_min"`
	GrantMax             *int64    `json:"grant_max"`
	Documents            *string   `json:"documents"`
	Title                string    `gorm:"not null" json:"title"`
	Description          *string   `json:"description"`
	ImplementationPeriod *string   `json:"implementation_period"`
	CompetitionName      *string   `json:"competition_name"`
	Contacts             *string   `json:"contacts"`
	URL                  *string   `json:"url"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName returns the table name for Grant.
func (Grant) TableName() string {
	return "grants"
}

// GrantQuestions is a user's answers to the grant application questionnaire.
type GrantQuestions struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               string  `gorm:"index;not null;type:text" json:"user_id"`
	RequestedAmount      *string `json:"requested_amount"`
	GrantPurpose         *string `json:"grant_purpose"`
	PreparedDocuments    *string `json:"prepared_documents"`
	PatentsOrInnovations *string `json:"patents_or_innovations"`
	PreviousGrants       *string `json:"previous_grants"`
	OperationalRegions   *string `json:"operational_regions"`
	BusinessSize         *string `json:"business_size"`
	ProjectIdea          *string `json:"project_idea"`
	AnnualRevenue        *string `json:"annual_revenue"`
	OKVEDCodes           *string `gorm:"column:okved_codes" json:"okved_codes"`
}

// TableName returns the table name for GrantQuestions.
func (GrantQuestions) TableName() string {
	return "grant_questions"
}
