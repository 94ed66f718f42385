package repository

import (
	"context"
	"testing"

	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
)

func TestActionRepository_FiltersAndAnalytics(t *testing.T) {
	db := repotest.NewDB(t)
	_, ws := repotest.Seed(t, db, entities.PlanFree)
	meetings := NewMeetingRepository(db)
	repo := NewActionRepository(db)
	ctx := context.Background()

	m := entities.NewMeeting(ws.ID, entities.MeetingSourceManual, "", "Kickoff")
	if err := meetings.Create(ctx, m); err != nil {
		t.Fatalf("create meeting failed: %v", err)
	}

	alice, bob := "Alice", "Bob"
	mk := func(title string, typ entities.ActionType, owner *string) *entities.Action {
		a := entities.NewAction(m.ID, ws.ID, typ, title)
		a.OwnerName = owner
		return a
	}
	actions := []*entities.Action{
		mk("Draft roadmap", entities.ActionTypeTask, &alice),
		mk("Book venue", entities.ActionTypeTask, &alice),
		mk("Use Postgres", entities.ActionTypeDecision, &bob),
		mk("Who owns QA?", entities.ActionTypeQuestion, nil),
	}
	m.MarkCompleted("summary")
	if err := meetings.Complete(ctx, m, actions, nil); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	task := entities.ActionTypeTask
	list, total, err := repo.List(ctx, repositories.ActionFilter{WorkspaceID: ws.ID, Type: &task, Limit: 50})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 tasks, got total=%d len=%d", total, len(list))
	}

	done := actions[0]
	if err := done.SetStatus(entities.ActionStatusCompleted); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if err := repo.Update(ctx, done); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	counts, err := repo.CountByStatus(ctx, ws.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts[entities.ActionStatusCompleted] != 1 || counts[entities.ActionStatusOpen] != 3 {
		t.Fatalf("unexpected counts %v", counts)
	}

	owners, err := repo.TopOwners(ctx, ws.ID, 5)
	if err != nil {
		t.Fatalf("top owners failed: %v", err)
	}
	if len(owners) != 2 || owners[0].OwnerName != "Alice" || owners[0].Count != 2 {
		t.Fatalf("unexpected owners %+v", owners)
	}

	if err := repo.SetExternalTask(ctx, done.ID, "lin_1", "https://linear.app/x/ENG-1"); err != nil {
		t.Fatalf("set external task failed: %v", err)
	}
	got, err := repo.FindInWorkspace(ctx, ws.ID, done.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.ExternalTaskID == nil || *got.ExternalTaskID != "lin_1" || got.CompletedAt == nil {
		t.Fatalf("unexpected action %+v", got)
	}
}
