package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

func TestIntegrationRepository_UpsertReplacesByWorkspaceAndType(t *testing.T) {
	db := repotest.NewDB(t)
	user, ws := repotest.Seed(t, db, entities.PlanFree)
	repo := NewIntegrationRepository(db)
	ctx := context.Background()

	first := entities.NewIntegration(ws.ID, entities.IntegrationSlack, user.ID)
	first.AccessToken = "xoxb-old"
	teamID := "T123"
	first.TeamID = &teamID
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	second := entities.NewIntegration(ws.ID, entities.IntegrationSlack, user.ID)
	second.AccessToken = "xoxb-new"
	second.SetSetting(entities.SettingChannelID, "C42")
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert should keep the stored row id %s, got %s", first.ID, second.ID)
	}

	count, err := repo.CountByWorkspace(ctx, ws.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected a single integration, got %d (%v)", count, err)
	}

	got, err := repo.Find(ctx, ws.ID, entities.IntegrationSlack)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.AccessToken != "xoxb-new" {
		t.Fatalf("expected new token, got %s", got.AccessToken)
	}
	if got.StringSetting(entities.SettingChannelID) != "C42" {
		t.Fatalf("expected channel setting, got %v", got.Metadata)
	}
}

func TestIntegrationRepository_FindByTeamIDAndDelete(t *testing.T) {
	db := repotest.NewDB(t)
	user, ws := repotest.Seed(t, db, entities.PlanFree)
	repo := NewIntegrationRepository(db)
	ctx := context.Background()

	zoom := entities.NewIntegration(ws.ID, entities.IntegrationZoom, user.ID)
	zoom.AccessToken = "zoom-token"
	account := "acc-1"
	zoom.TeamID = &account
	if err := repo.Upsert(ctx, zoom); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := repo.FindByTeamID(ctx, entities.IntegrationZoom, "acc-1")
	if err != nil {
		t.Fatalf("find by team failed: %v", err)
	}
	if got.WorkspaceID != ws.ID {
		t.Fatalf("resolved wrong workspace %s", got.WorkspaceID)
	}
	if _, err := repo.FindByTeamID(ctx, entities.IntegrationTeams, "acc-1"); !errors.Is(err, entities.ErrIntegrationNotFound) {
		t.Fatalf("expected not found for other type, got %v", err)
	}

	if err := repo.Delete(ctx, ws.ID, entities.IntegrationZoom); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, ws.ID, entities.IntegrationZoom); !errors.Is(err, entities.ErrIntegrationNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
