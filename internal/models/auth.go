package models

import "github.com/golang-jwt/jwt/v5"

// Role is the access level carried by a bearer token.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleSecretary Role = "SECRETARY"
	RoleViewer    Role = "VIEWER"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleViewer:
		return true
	}
	return false
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
