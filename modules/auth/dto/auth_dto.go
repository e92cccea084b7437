package dto

// AuthorizationURLResponse carries the provider redirect URL for the client
// to follow.
type AuthorizationURLResponse struct {
	URL string `json:"url"`
}

// ConnectionResult is the outcome of the OAuth callback.
type ConnectionResult struct {
	Connected  bool   `json:"connected"`
	UserID     string `json:"user_id"`
	Onboarding bool   `json:"onboarding,omitempty"`
}
