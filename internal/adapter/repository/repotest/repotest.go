// Package repotest opens an in-memory SQLite database with the service schema for tests.
package repotest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// Models lists every table the service owns
var Models = []interface{}{
	&entities.User{},
	&entities.Session{},
	&entities.Workspace{},
	&entities.WorkspaceMember{},
	&entities.Meeting{},
	&entities.Action{},
	&entities.Integration{},
	&entities.UsageLog{},
}

// NewDB returns a migrated in-memory database closed at test cleanup
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models...); err != nil {
		t.Fatalf("auto-migrate failed: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Seed creates a user and a workspace they own
func Seed(t *testing.T, db *gorm.DB, plan entities.PlanType) (*entities.User, *entities.Workspace) {
	t.Helper()

	id := uuid.NewString()
	user := entities.NewOAuthUser(id[:8]+"@example.com", "Ada Lovelace", "google", id)
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	ws := entities.NewWorkspace("Ada's Workspace", user.ID)
	ws.Plan = plan
	if err := db.Create(ws).Error; err != nil {
		t.Fatalf("failed to seed workspace: %v", err)
	}
	if err := db.Create(entities.NewWorkspaceMember(ws.ID, user.ID, entities.RoleOwner)).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return user, ws
}
