// Package testutil provides helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	"gamereviews/internal/db"
	"gamereviews/internal/model"
)

// Token settings used by tests that issue or validate JWTs.
const (
	JWTSecret   = "test-secret"
	JWTIssuer   = "GameReviewsAPI"
	JWTAudience = "GameReviewsClient"
)

// OpenTestDB opens a private in-memory SQLite database with every model
// migrated. The database is closed via t.Cleanup.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the same data.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=off"
	gormDB, err := gorm.Open(sqlite.Open(dsn), db.Config())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gormDB
}

// NewJWTService returns a JWT service configured with the test settings.
func NewJWTService() *auth.JWTService {
	return auth.NewJWTService(JWTSecret, JWTIssuer, JWTAudience, time.Hour)
}

// Principal builds the principal a token for user would carry.
func Principal(user *model.User) *auth.Principal {
	return &auth.Principal{
		Subject:  user.ID,
		Username: user.Username,
		Role:     user.Role,
		UserID:   auth.MapIdentity(user.ID),
	}
}

// IssueToken signs a token for user with the test settings.
func IssueToken(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := NewJWTService().GenerateToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
