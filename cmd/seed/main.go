package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-actions/pkg/config"
	pkgjwt "github.com/johnquangdev/meeting-actions/pkg/jwt"
)

// seeds a shared dev workspace with one owner and a few members, then prints
// a bearer token for each of them
func main() {
	log.Println("🚀 Seeding development users...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Server.Environment == "production" {
		log.Fatalf("Refusing to seed a production database")
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	workspaces := repository.NewWorkspaceRepository(db)

	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	seeds := []struct {
		Email string
		Name  string
		Role  entities.MemberRole
	}{
		{Email: "alice@test.local", Name: "Alice", Role: entities.RoleOwner},
		{Email: "bob@test.local", Name: "Bob", Role: entities.RoleAdmin},
		{Email: "charlie@test.local", Name: "Charlie", Role: entities.RoleMember},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("owner_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").Delete(&entities.Workspace{})
	db.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").Delete(&entities.Session{})
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	var ws *entities.Workspace
	for _, s := range seeds {
		user := entities.NewOAuthUser(s.Email, s.Name, "seed", s.Email)
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("❌ Failed to create user %s: %v", s.Email, err)
		}

		if ws == nil {
			ws = entities.NewWorkspace("Dev Workspace", user.ID)
			if err := workspaces.CreateWithOwner(ctx, ws, entities.NewWorkspaceMember(ws.ID, user.ID, entities.RoleOwner)); err != nil {
				log.Fatalf("❌ Failed to create workspace: %v", err)
			}
		} else if err := workspaces.AddMember(ctx, entities.NewWorkspaceMember(ws.ID, user.ID, s.Role)); err != nil {
			log.Fatalf("❌ Failed to add %s to workspace: %v", s.Email, err)
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email)
		if err != nil {
			log.Fatalf("❌ Failed to generate access token for %s: %v", s.Email, err)
		}
		refreshToken, err := jwtManager.GenerateRefreshToken(user.ID)
		if err != nil {
			log.Fatalf("❌ Failed to generate refresh token for %s: %v", s.Email, err)
		}
		hash, err := jwtManager.HashToken(refreshToken)
		if err != nil {
			log.Fatalf("❌ Failed to hash refresh token: %v", err)
		}
		if err := sessions.Create(ctx, entities.NewSession(user.ID, hash, time.Now().Add(cfg.JWT.RefreshExpiry), entities.Device{UserAgent: "seed"})); err != nil {
			log.Fatalf("❌ Failed to create session for %s: %v", s.Email, err)
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 %s (%s)\n", s.Name, s.Role)
		fmt.Printf("Email:         %s\n", user.Email)
		fmt.Printf("User ID:       %s\n", user.ID)
		fmt.Printf("Workspace ID:  %s\n", ws.ID)
		fmt.Printf("\n📋 Access Token (expires in %v):\n%s\n", cfg.JWT.AccessExpiry, accessToken)
		fmt.Printf("\n🔄 Refresh Token:\n%s\n\n", refreshToken)
	}

	log.Println("✅ Seed complete")
	log.Println("💡 Send the access token as: Authorization: Bearer <access_token>")
}
