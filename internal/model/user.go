package model

import "time"

// Roles carried in the role claim of issued tokens.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is a registered account. ID is an opaque UUID string; the numeric
// identity used for review ownership is derived from it by auth.MapIdentity.
type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'User'"`
	CreatedAt    time.Time `json:"createdAt"`
}
