package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the `iss` claim of every token the API signs.
const TokenIssuer = "nonprofit-site"

// Claims is the payload of an access token. The client decodes it without
// verification to learn the role; the server always verifies the signature.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
