package passport

// Request-reply service names registered by the passport module.
const (
	ServiceCreate = "passport.create"
	ServiceGet    = "passport.get"
	ServiceUpdate = "passport.update"
)

// Request addresses the passport of UserID.
type Request struct {
	UserID string `json:"user_id"`
	Input  Input  `json:"input"`
}
