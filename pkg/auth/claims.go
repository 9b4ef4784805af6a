package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity of a back-office user or service calling the
// underwriting API.
type Claims struct {
	jwt.RegisteredClaims
	ReviewerID string   `json:"reviewer_id"`
	Roles      []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleUnderwriter = "underwriter"
	RoleReviewer    = "reviewer"
	RoleIntake      = "intake_service"
)
