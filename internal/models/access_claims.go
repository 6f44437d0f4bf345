package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the claim set carried by issued access tokens. The
// token_type claim guards against a foreign JWT signed with the same key
// being accepted as an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
}
