package recommend

// Request-reply service names registered by the recommend module.
const (
	ServiceForStartup = "recommend.startup"
	ServiceRank       = "recommend.rank"
)

// StartupRequest asks for recommendations for a stored startup.
type StartupRequest struct {
	StartupID uint `json:"startup_id"`
}

// StartupRecommendations is the ranked program list for one startup.
type StartupRecommendations struct {
	Startup           *string          `json:"startup"`
	RecommendedGrants []Recommendation `json:"recommended_grants"`
}

// RankRequest ranks ad-hoc candidates against a description.
type RankRequest struct {
	Description string      `json:"description"`
	Candidates  []Candidate `json:"candidates"`
}

// RankResponse carries ranked candidates.
type RankResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}
