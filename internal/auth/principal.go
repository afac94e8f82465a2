package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"gamereviews/internal/model"
)

// ContextKey is the echo context key holding the authenticated *Principal.
const ContextKey = "principal"

// Principal is the authenticated caller.
type Principal struct {
	Subject   string
	Username  string
	Role      string
	UserID    int // MapIdentity(Subject)
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the Admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == model.RoleAdmin
}

// PrincipalFrom returns the caller stored by the auth middleware, or nil for
// anonymous requests.
func PrincipalFrom(c echo.Context) *Principal {
	p, _ := c.Get(ContextKey).(*Principal)
	return p
}
