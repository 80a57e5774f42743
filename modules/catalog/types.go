package catalog

import (
	domain "github.com/example/grantmatch/domain/catalog"
)

// Request-reply service names registered by the catalog module.
const (
	ServiceCreateStartup = "catalog.create-startup"
	ServiceGetStartup    = "catalog.get-startup"
	ServiceListStartups  = "catalog.list-startups"
	ServiceUpdateStartup = "catalog.update-startup"
	ServiceDeleteStartup = "catalog.delete-startup"

	ServiceCreateProgram = "catalog.create-program"
	ServiceGetProgram    = "catalog.get-program"
	ServiceListPrograms  = "catalog.list-programs"
	ServiceAllPrograms   = "catalog.all-programs"
	ServiceUpdateProgram = "catalog.update-program"
	ServiceDeleteProgram = "catalog.delete-program"

	ServiceCreateGrant = "catalog.create-grant"
	ServiceGetGrant    = "catalog.get-grant"
	ServiceListGrants  = "catalog.list-grants"

	ServiceCreateQuestions   = "catalog.create-questions"
	ServiceGetQuestions      = "catalog.get-questions"
	ServiceListUserQuestions = "catalog.list-user-questions"
	ServiceUpdateQuestions   = "catalog.update-questions"
	ServiceDeleteQuestions   = "catalog.delete-questions"
)

// IDRequest addresses a single record.
type IDRequest struct {
	ID uint `json:"id"`
}

// PageRequest asks for one page of a listing.
type PageRequest struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// UpdateStartupRequest applies Changes to startup ID.
type UpdateStartupRequest struct {
	ID      uint         `json:"id"`
	Changes StartupInput `json:"changes"`
}

// UpdateProgramRequest applies Changes to program ID.
type UpdateProgramRequest struct {
	ID      uint         `json:"id"`
	Changes ProgramInput `json:"changes"`
}

// ProgramsResponse carries a full program list.
type ProgramsResponse struct {
	Programs []domain.Program `json:"programs"`
}

// QuestionsRequest addresses a questionnaire on behalf of its owner.
// ID is zero for creation and for listing.
type QuestionsRequest struct {
	UserID  string         `json:"user_id"`
	ID      uint           `json:"id,omitempty"`
	Changes QuestionsInput `json:"changes"`
}

// QuestionsListResponse carries a user's questionnaires.
type QuestionsListResponse struct {
	Questions []domain.GrantQuestions `json:"questions"`
}

// DeletedResponse acknowledges a deletion.
type DeletedResponse struct {
	Message string `json:"message"`
}
