package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sun1tar/todo-app/services/todo/internal/repository"
)

func newTestService(t *testing.T) (*TodoService, *fakeClock) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	clock := &fakeClock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	return NewTodoService(repository.NewMemoryTodoRepository(), log, WithClock(clock.Now)), clock
}

// fakeClock сдвигается на секунду при каждом вызове, чтобы createdAt были уникальны
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestTodoService_SeededScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	created, err := svc.Create(ctx, "Buy milk", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 4 || created.IsCompleted {
		t.Fatalf("created=%+v, want id=4 isCompleted=false", created)
	}

	toggled, err := svc.Toggle(ctx, 4)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Fatalf("expected isCompleted=true after toggle")
	}

	removed, err := svc.Delete(ctx, 4)
	if err != nil || !removed {
		t.Fatalf("Delete=%v,%v, want true,nil", removed, err)
	}
	if _, err := svc.GetByID(ctx, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}

	todos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("len=%d, want 3", len(todos))
	}
}

func TestTodoService_SeedDefaultsOnlyWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "existing", false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	todos, _ := svc.List(ctx)
	if len(todos) != 1 {
		t.Fatalf("seed ran on non-empty store: len=%d", len(todos))
	}
}

func TestTodoService_SeedOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	todos, _ := svc.List(ctx)
	want := []string{"Create TODO App", "Build Todo REST API", "Learn Go"}
	for i, title := range want {
		if todos[i].Title != title {
			t.Fatalf("todos[%d]=%q, want %q", i, todos[i].Title, title)
		}
	}
	if !todos[1].IsCompleted {
		t.Fatalf("second sample should be completed")
	}
}

func TestTodoService_CreateAssignsFreshIDAndTime(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for _, title := range []string{"a", strings.Repeat("x", 200), "Купить хлеб"} {
		before := clock.t
		todo, err := svc.Create(ctx, title, false)
		if err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
		if seen[todo.ID] {
			t.Fatalf("id %d reused", todo.ID)
		}
		seen[todo.ID] = true
		if !todo.CreatedAt.After(before) {
			t.Fatalf("CreatedAt=%v not after %v", todo.CreatedAt, before)
		}
	}
}

func TestTodoService_CreatedAtHasMicrosecondPrecision(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	clock := &fakeClock{t: time.Date(2026, 10, 15, 13, 52, 11, 677455852, time.UTC)}
	svc := NewTodoService(repository.NewMemoryTodoRepository(), log, WithClock(clock.Now))
	ctx := context.Background()

	todo, err := svc.Create(ctx, "Buy milk", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ns := todo.CreatedAt.Nanosecond(); ns%1000 != 0 {
		t.Fatalf("CreatedAt=%v keeps sub-microsecond part", todo.CreatedAt)
	}
	toggled, err := svc.Toggle(ctx, todo.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.CreatedAt.Equal(todo.CreatedAt) {
		t.Fatalf("Toggle CreatedAt=%v, want %v", toggled.CreatedAt, todo.CreatedAt)
	}
}

func TestTodoService_CreateHonoursIsCompleted(t *testing.T) {
	svc, _ := newTestService(t)
	todo, err := svc.Create(context.Background(), "done already", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !todo.IsCompleted {
		t.Fatalf("expected isCompleted=true")
	}
}

func TestTodoService_CreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"whitespace", "   \t"},
		{"too long", strings.Repeat("a", 201)},
		{"too long runes", strings.Repeat("я", 201)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()

			_, err := svc.Create(ctx, tc.title, false)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err=%v, want ValidationError", err)
			}
			if len(verr.Errors["title"]) == 0 {
				t.Fatalf("expected title field error, got %v", verr.Errors)
			}
			todos, _ := svc.List(ctx)
			if len(todos) != 0 {
				t.Fatalf("store mutated by invalid create: %d items", len(todos))
			}
		})
	}
}

func TestTodoService_UpdateKeepsIDAndCreatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	orig, _ := svc.Create(ctx, "draft", false)
	upd, err := svc.Update(ctx, orig.ID, "final", true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.ID != orig.ID || !upd.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatalf("update changed immutable fields: %+v vs %+v", upd, orig)
	}
	if upd.Title != "final" || !upd.IsCompleted {
		t.Fatalf("update not applied: %+v", upd)
	}
}

func TestTodoService_UpdateErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Update(ctx, 42, "anything", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}

	orig, _ := svc.Create(ctx, "keep", false)
	var verr *ValidationError
	if _, err := svc.Update(ctx, orig.ID, "", true); !errors.As(err, &verr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	got, _ := svc.GetByID(ctx, orig.ID)
	if got.Title != "keep" || got.IsCompleted {
		t.Fatalf("invalid update mutated record: %+v", got)
	}
}

func TestTodoService_ToggleTwiceRestores(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	orig, _ := svc.Create(ctx, "flip", true)
	if _, err := svc.Toggle(ctx, orig.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	back, err := svc.Toggle(ctx, orig.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if back.IsCompleted != orig.IsCompleted || back.ID != orig.ID || !back.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatalf("double toggle: %+v, want %+v", back, orig)
	}

	if _, err := svc.Toggle(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Toggle missing err=%v, want ErrNotFound", err)
	}
}

func TestTodoService_DeleteTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, "bye", false)
	if ok, err := svc.Delete(ctx, todo.ID); err != nil || !ok {
		t.Fatalf("first Delete=%v,%v", ok, err)
	}
	if ok, err := svc.Delete(ctx, todo.ID); err != nil || ok {
		t.Fatalf("second Delete=%v,%v, want false,nil", ok, err)
	}
}

func TestTodoService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three", "four"} {
		if _, err := svc.Create(ctx, title, false); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	todos, _ := svc.List(ctx)
	for i := 1; i < len(todos); i++ {
		if !todos[i-1].CreatedAt.After(todos[i].CreatedAt) {
			t.Fatalf("not sorted newest first: %v then %v", todos[i-1].CreatedAt, todos[i].CreatedAt)
		}
	}
	if todos[0].Title != "four" {
		t.Fatalf("newest=%q, want four", todos[0].Title)
	}
}

func TestTodoService_OperationMetrics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	okBefore := testutil.ToFloat64(operationsTotal.WithLabelValues("create", "ok"))
	invalidBefore := testutil.ToFloat64(operationsTotal.WithLabelValues("create", "invalid"))
	notFoundBefore := testutil.ToFloat64(operationsTotal.WithLabelValues("toggle", "not_found"))

	_, _ = svc.Create(ctx, "counted", false)
	_, _ = svc.Create(ctx, "", false)
	_, _ = svc.Toggle(ctx, 12345)

	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("create", "ok")); got != okBefore+1 {
		t.Fatalf("create/ok=%v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("create", "invalid")); got != invalidBefore+1 {
		t.Fatalf("create/invalid=%v, want %v", got, invalidBefore+1)
	}
	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("toggle", "not_found")); got != notFoundBefore+1 {
		t.Fatalf("toggle/not_found=%v, want %v", got, notFoundBefore+1)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateTitle("")
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("unexpected error text: %v", err)
	}
	if ValidateTitle("ok") != nil {
		t.Fatalf("valid title rejected")
	}
}
