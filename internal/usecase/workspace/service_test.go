package workspace

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := repotest.NewDB(t)
	svc := NewService(
		repository.NewWorkspaceRepository(db),
		repository.NewMeetingRepository(db),
		repository.NewUsageRepository(db),
		repository.NewIntegrationRepository(db),
		nil,
	)
	return svc, db
}

func TestCreateAndListForUser(t *testing.T) {
	svc, db := newService(t)
	user, seeded := repotest.Seed(t, db, entities.PlanFree)
	ctx := context.Background()

	ws, err := svc.Create(ctx, user.ID, "  Platform Team  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ws.Name != "Platform Team" || ws.OwnerID != user.ID {
		t.Fatalf("unexpected workspace %+v", ws)
	}

	list, err := svc.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(list))
	}
	if list[0].Workspace.ID != seeded.ID {
		t.Fatalf("expected oldest workspace first")
	}
	for _, m := range list {
		if m.Role != entities.RoleOwner {
			t.Fatalf("expected owner role, got %s", m.Role)
		}
	}

	none, err := svc.ListForUser(ctx, uuid.New())
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %v", none, err)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), uuid.New(), "   ")
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_WORKSPACE_NOT_FOUND {
		t.Fatalf("expected workspace not found, got %v", err)
	}
}

func TestUsage_CountsCurrentMonth(t *testing.T) {
	svc, db := newService(t)
	user, ws := repotest.Seed(t, db, entities.PlanFree)
	ctx := context.Background()

	meetings := repository.NewMeetingRepository(db)
	for i := 0; i < 3; i++ {
		m := entities.NewMeeting(ws.ID, entities.MeetingSourceManual, "", "Sync")
		if err := meetings.Create(ctx, m); err != nil {
			t.Fatalf("create meeting: %v", err)
		}
	}
	old := entities.NewMeeting(ws.ID, entities.MeetingSourceManual, "", "Last month")
	old.CreatedAt = entities.StartOfMonth(time.Now()).Add(-time.Hour)
	if err := meetings.Create(ctx, old); err != nil {
		t.Fatalf("create old meeting: %v", err)
	}

	usage := repository.NewUsageRepository(db)
	if err := usage.Record(ctx, entities.NewUsageLog(ws.ID, entities.UsageAction, 7, nil)); err != nil {
		t.Fatalf("record usage: %v", err)
	}

	integrations := repository.NewIntegrationRepository(db)
	slack := entities.NewIntegration(ws.ID, entities.IntegrationSlack, user.ID)
	slack.AccessToken = "xoxb"
	if err := integrations.Upsert(ctx, slack); err != nil {
		t.Fatalf("upsert integration: %v", err)
	}

	got, err := svc.Usage(ctx, ws.ID)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if got.Meetings != 3 || got.Actions != 7 || got.Integrations != 1 {
		t.Fatalf("unexpected usage %+v", got)
	}
	if got.Limits.MeetingsPerMonth != 10 || got.Plan != entities.PlanFree {
		t.Fatalf("unexpected limits %+v", got)
	}
}
