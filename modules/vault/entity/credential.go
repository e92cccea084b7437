package entity

import "time"

// CredentialBundle is the provider-issued token set for one user. It exists
// in plaintext only inside an active request; at rest it lives encrypted in
// a StoredCredentialRecord.
type CredentialBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresAt is the access token expiry in epoch milliseconds, 0 when the
	// provider did not report one.
	ExpiresAt int64  `json:"expires_at,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Scope     string `json:"scope,omitempty"`
}

// Expiry returns the access token expiry, zero when unknown.
func (b *CredentialBundle) Expiry() time.Time {
	if b.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(b.ExpiresAt)
}

// StoredCredentialRecord is the at-rest form: one row/object per user,
// replaced wholesale on every save.
type StoredCredentialRecord struct {
	UserID     string    `db:"user_id" json:"user_id"`
	Ciphertext string    `db:"ciphertext" json:"ciphertext"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
