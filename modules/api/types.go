package api

// LoginRequest represents a login request. Identifier is a username, email
// or INN; Username is accepted as an alias for form-encoded password logins.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
}

// RefreshRequest carries a refresh token. The refresh_token cookie is used
// when the body is empty.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// AnonymousSessionRequest asks for a device session token.
type AnonymousSessionRequest struct {
	DeviceUUID string `json:"device_uuid"`
}

// UpdateUserRequest is a partial profile update.
type UpdateUserRequest struct {
	Name            *string `json:"name"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// RankRequest ranks every grant program against an ad-hoc description.
type RankRequest struct {
	Description string `json:"description"`
}

// NewsItem is one entry of the news feed.
type NewsItem struct {
	ID    string `json:"id"`
	Img   string `json:"img"`
	Title string `json:"title"`
	Time  string `json:"time"`
	Topic string `json:"topic"`
	URL   string `json:"url"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
