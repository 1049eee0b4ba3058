package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sun1tar/todo-app/services/todo/internal/models"
)

// runRepositoryContract прогоняет одинаковые проверки для всех реализаций
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) TodoRepository) {
	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

		var prev int64
		for i := 0; i < 3; i++ {
			todo := &models.TodoItem{Title: "item", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
			if err := repo.Create(ctx, todo); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if todo.ID <= prev {
				t.Fatalf("id=%d not greater than previous %d", todo.ID, prev)
			}
			prev = todo.ID
		}
	})

	t.Run("IDsNotReusedAfterDelete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		first := &models.TodoItem{Title: "a", CreatedAt: now}
		second := &models.TodoItem{Title: "b", CreatedAt: now.Add(time.Second)}
		mustCreate(t, repo, first)
		mustCreate(t, repo, second)
		if err := repo.Delete(ctx, second.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		third := &models.TodoItem{Title: "c", CreatedAt: now.Add(2 * time.Second)}
		mustCreate(t, repo, third)
		if third.ID <= second.ID {
			t.Fatalf("id %d reused or decreased (deleted id %d)", third.ID, second.ID)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		// создаём не по порядку времени
		for _, offset := range []time.Duration{2 * time.Hour, 0, 5 * time.Hour, time.Hour} {
			mustCreate(t, repo, &models.TodoItem{Title: offset.String(), CreatedAt: base.Add(offset)})
		}

		todos, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 4 {
			t.Fatalf("len=%d, want 4", len(todos))
		}
		for i := 1; i < len(todos); i++ {
			if todos[i].CreatedAt.After(todos[i-1].CreatedAt) {
				t.Fatalf("list not sorted newest first at %d: %v after %v", i, todos[i].CreatedAt, todos[i-1].CreatedAt)
			}
		}
	})

	t.Run("GetByIDRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		created := time.Date(2026, 5, 6, 7, 8, 9, 123456000, time.UTC)
		todo := &models.TodoItem{Title: "Buy milk", IsCompleted: true, CreatedAt: created}
		mustCreate(t, repo, todo)

		got, err := repo.GetByID(context.Background(), todo.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Title != "Buy milk" || !got.IsCompleted {
			t.Fatalf("unexpected record: %+v", got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("CreatedAt=%v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("CreatedAtMatchesStoredValue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		todo := &models.TodoItem{Title: "Buy milk", CreatedAt: time.Date(2026, 10, 15, 13, 52, 11, 677455852, time.UTC)}
		mustCreate(t, repo, todo)

		got, err := repo.GetByID(ctx, todo.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if !got.CreatedAt.Equal(todo.CreatedAt) {
			t.Fatalf("GetByID CreatedAt=%v, Create returned %v", got.CreatedAt, todo.CreatedAt)
		}
		toggled, err := repo.Toggle(ctx, todo.ID)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if !toggled.CreatedAt.Equal(todo.CreatedAt) {
			t.Fatalf("Toggle CreatedAt=%v, Create returned %v", toggled.CreatedAt, todo.CreatedAt)
		}
	})

	t.Run("MissingIDIsNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetByID err=%v, want ErrNotFound", err)
		}
		if err := repo.Update(ctx, &models.TodoItem{ID: 999, Title: "x"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Update err=%v, want ErrNotFound", err)
		}
		if _, err := repo.Toggle(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Toggle err=%v, want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete err=%v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateKeepsIDAndCreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		created := time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC)
		todo := &models.TodoItem{Title: "old", CreatedAt: created}
		mustCreate(t, repo, todo)

		upd := &models.TodoItem{ID: todo.ID, Title: "new", IsCompleted: true, CreatedAt: created.Add(time.Hour)}
		if err := repo.Update(ctx, upd); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := repo.GetByID(ctx, todo.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Title != "new" || !got.IsCompleted {
			t.Fatalf("update not applied: %+v", got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("CreatedAt changed: %v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("ToggleIsItsOwnInverse", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		todo := &models.TodoItem{Title: "flip", CreatedAt: time.Now().UTC()}
		mustCreate(t, repo, todo)

		once, err := repo.Toggle(ctx, todo.ID)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if !once.IsCompleted {
			t.Fatalf("expected completed after first toggle")
		}
		twice, err := repo.Toggle(ctx, todo.ID)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if twice.IsCompleted {
			t.Fatalf("expected not completed after second toggle")
		}
		if twice.ID != todo.ID || twice.Title != "flip" {
			t.Fatalf("toggle changed record: %+v", twice)
		}
	})

	t.Run("ConcurrentTogglesAreNotLost", func(t *testing.T) {
		repo := newRepo(t)
		todo := &models.TodoItem{Title: "race", CreatedAt: time.Now().UTC()}
		mustCreate(t, repo, todo)

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Toggle(context.Background(), todo.ID); err != nil {
					t.Errorf("Toggle: %v", err)
				}
			}()
		}
		wg.Wait()

		got, err := repo.GetByID(context.Background(), todo.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.IsCompleted {
			t.Fatalf("even number of toggles should leave item incomplete")
		}
	})

	t.Run("DeleteAndCount", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		todo := &models.TodoItem{Title: "gone", CreatedAt: time.Now().UTC()}
		mustCreate(t, repo, todo)

		if n, _ := repo.Count(ctx); n != 1 {
			t.Fatalf("Count=%d, want 1", n)
		}
		if err := repo.Delete(ctx, todo.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := repo.Delete(ctx, todo.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second Delete err=%v, want ErrNotFound", err)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Fatalf("Count=%d, want 0", n)
		}
	})
}

func mustCreate(t *testing.T, repo TodoRepository, todo *models.TodoItem) {
	t.Helper()
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create(%q): %v", todo.Title, err)
	}
}
