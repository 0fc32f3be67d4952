package shared

// SessionUser is what the OAuth session provider vouches for.
// Lives here so middleware and domains share it without an import cycle.
type SessionUser struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
}

// DisplayName falls back to the email when the provider sent no name
func (u *SessionUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Gin context keys
const (
	ContextKeySession   = "session_user"
	ContextKeyClientIP  = "client_ip"
	ContextKeyRequestID = "request_id"
)
