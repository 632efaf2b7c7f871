package versioning

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tailor/internal/domain"
	"tailor/internal/domain/models"
	"tailor/internal/domain/services"
)

// seedCommits writes n commits directly to the store with ascending
// timestamps so pagination order is deterministic.
func seedCommits(t *testing.T, env *testEnv, branchID string, n int) []models.Commit {
	t.Helper()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := make([]models.Commit, n)
	for i := 0; i < n; i++ {
		c := models.Commit{
			ID:        fmt.Sprintf("commit-%03d", i),
			BranchID:  branchID,
			Content:   models.Content{"rev": float64(i)},
			Message:   fmt.Sprintf("Change %d", i),
			AuthorID:  "owner-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := env.commitRepo.Create(context.Background(), &c); err != nil {
			t.Fatalf("seed commit %d: %v", i, err)
		}
		commits[i] = c
	}
	return commits
}

func TestGetHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, main := env.createProject(t, "owner-1", "Resume")
	seeded := seedCommits(t, env, main.ID, 7)

	// First page: newest 3, with a cursor to the rest.
	page, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "owner-1", BranchID: main.ID, Limit: 3,
	})
	if err != nil {
		t.Fatalf("GetHistory() = %v", err)
	}
	if len(page.Commits) != 3 {
		t.Fatalf("page 1 = %d commits, want 3", len(page.Commits))
	}
	if page.Commits[0].ID != seeded[6].ID || page.Commits[2].ID != seeded[4].ID {
		t.Errorf("page 1 = [%s .. %s], want newest first", page.Commits[0].ID, page.Commits[2].ID)
	}
	if page.NextCursor == "" {
		t.Fatal("page 1 NextCursor empty, want token for older commits")
	}

	// Second page continues strictly after the first, no overlap.
	page2, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "owner-1", BranchID: main.ID, Limit: 3, Cursor: page.NextCursor,
	})
	if err != nil {
		t.Fatalf("GetHistory() page 2 = %v", err)
	}
	if len(page2.Commits) != 3 {
		t.Fatalf("page 2 = %d commits, want 3", len(page2.Commits))
	}
	if page2.Commits[0].ID != seeded[3].ID {
		t.Errorf("page 2 starts at %s, want %s", page2.Commits[0].ID, seeded[3].ID)
	}

	// Final page: one commit, no cursor.
	page3, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "owner-1", BranchID: main.ID, Limit: 3, Cursor: page2.NextCursor,
	})
	if err != nil {
		t.Fatalf("GetHistory() page 3 = %v", err)
	}
	if len(page3.Commits) != 1 || page3.Commits[0].ID != seeded[0].ID {
		t.Errorf("page 3 = %+v, want only the oldest commit", page3.Commits)
	}
	if page3.NextCursor != "" {
		t.Errorf("page 3 NextCursor = %q, want empty", page3.NextCursor)
	}
}

func TestGetHistoryExactPageBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, main := env.createProject(t, "owner-1", "Resume")
	seedCommits(t, env, main.ID, 4)

	// A page that ends exactly at the oldest commit reports no next page.
	page, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "owner-1", BranchID: main.ID, Limit: 4,
	})
	if err != nil {
		t.Fatalf("GetHistory() = %v", err)
	}
	if len(page.Commits) != 4 {
		t.Fatalf("page = %d commits, want 4", len(page.Commits))
	}
	if page.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty at end of history", page.NextCursor)
	}
}

func TestGetHistoryTimestampTie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, main := env.createProject(t, "owner-1", "Resume")

	// Three commits sharing one timestamp; the ID tie-break keeps paging
	// deterministic and loss-free.
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"commit-a", "commit-b", "commit-c"} {
		err := env.commitRepo.Create(ctx, &models.Commit{
			ID: id, BranchID: main.ID, Content: models.Content{},
			Message: id, AuthorID: "owner-1", CreatedAt: at,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	var got []string
	cursor := ""
	for i := 0; i < 4; i++ {
		page, err := env.history.GetHistory(ctx, &services.HistoryRequest{
			ActorID: "owner-1", BranchID: main.ID, Limit: 1, Cursor: cursor,
		})
		if err != nil {
			t.Fatalf("GetHistory() iteration %d = %v", i, err)
		}
		for _, c := range page.Commits {
			got = append(got, c.ID)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	want := []string{"commit-c", "commit-b", "commit-a"}
	if len(got) != len(want) {
		t.Fatalf("paged IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paged IDs = %v, want %v", got, want)
			break
		}
	}
}

func TestGetHistoryLimitClamping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, main := env.createProject(t, "owner-1", "Resume")
	seedCommits(t, env, main.ID, 60)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: 50},
		{name: "negative uses default", limit: -5, want: 50},
		{name: "explicit", limit: 10, want: 10},
		{name: "over max clamps", limit: 5000, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.history.GetHistory(ctx, &services.HistoryRequest{
				ActorID: "owner-1", BranchID: main.ID, Limit: tt.limit,
			})
			if err != nil {
				t.Fatalf("GetHistory() = %v", err)
			}
			if len(page.Commits) != tt.want {
				t.Errorf("limit %d returned %d commits, want %d", tt.limit, len(page.Commits), tt.want)
			}
		})
	}
}

func TestGetHistoryMalformedCursor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, main := env.createProject(t, "owner-1", "Resume")

	for _, cursor := range []string{"not base64 ???", "bm90IGpzb24", "e30"} {
		_, err := env.history.GetHistory(ctx, &services.HistoryRequest{
			ActorID: "owner-1", BranchID: main.ID, Cursor: cursor,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("GetHistory(cursor=%q) = %v, want ErrValidation", cursor, err)
		}
	}
}

func TestGetHistoryAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, main := env.createProject(t, "owner-1", "Resume")
	env.share(t, project.ID, "viewer-1", models.AccessViewer)

	if _, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "viewer-1", BranchID: main.ID,
	}); err != nil {
		t.Errorf("GetHistory() by viewer = %v", err)
	}

	_, err := env.history.GetHistory(ctx, &services.HistoryRequest{
		ActorID: "stranger", BranchID: main.ID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetHistory() by stranger = %v, want ErrNotFound", err)
	}
}

func TestGetCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, main := env.createProject(t, "owner-1", "Resume")

	commit, err := env.commits.Commit(ctx, &services.CommitRequest{
		ActorID: "owner-1", BranchID: main.ID,
		Content: models.Content{"summary": "x"}, Message: strPtr("C1"),
	})
	if err != nil {
		t.Fatalf("Commit() = %v", err)
	}

	got, err := env.history.GetCommit(ctx, main.ID, commit.ID, "owner-1")
	if err != nil {
		t.Fatalf("GetCommit() = %v", err)
	}
	if got.ID != commit.ID || got.Message != "C1" {
		t.Errorf("GetCommit() = %+v, want %s", got, commit.ID)
	}

	// The same commit through another branch's URL is not found.
	fork, err := env.branches.ForkBranch(ctx, &services.ForkBranchRequest{
		ActorID: "owner-1", ProjectID: project.ID,
		SourceBranchID: main.ID, Name: "variant",
	})
	if err != nil {
		t.Fatalf("ForkBranch() = %v", err)
	}
	if _, err := env.history.GetCommit(ctx, fork.ID, commit.ID, "owner-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-branch GetCommit() = %v, want ErrNotFound", err)
	}
}
