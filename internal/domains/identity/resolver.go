package identity

import (
	"net/http"

	"booknest/internal/shared"
	"booknest/internal/shared/utils"
)

// Token is the dedup key for one action per target
type Token struct {
	Value     string
	Anonymous bool
}

func (t Token) String() string {
	return t.Value
}

// Resolve maps a request to the identity that owns its vote/like on targetID.
// A session always wins; otherwise the client network identifier is hashed with the target,
// so one anonymous client gets a different token per book or comment.
// Clients behind the same NAT collide; that is accepted.
func Resolve(r *http.Request, session *shared.SessionUser, targetID string) Token {
	if session != nil && session.AccountID != "" {
		return Token{Value: session.AccountID}
	}

	return Token{
		Value:     Hash(utils.ExtractClientIP(r), targetID),
		Anonymous: true,
	}
}
