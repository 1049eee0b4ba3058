package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/sun1tar/todo-app/services/todo/internal/models"
)

// MemoryTodoRepository держит записи в памяти процесса; состояние живёт,
// пока жив процесс.
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	items  []*models.TodoItem
	nextID int64
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{nextID: 1}
}

func (r *MemoryTodoRepository) Close() error {
	return nil
}

func (r *MemoryTodoRepository) List(ctx context.Context) ([]*models.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]*models.TodoItem, 0, len(r.items))
	for _, t := range r.items {
		todos = append(todos, clone(t))
	}
	sortNewestFirst(todos)
	return todos, nil
}

func (r *MemoryTodoRepository) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return clone(r.items[i]), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryTodoRepository) Create(ctx context.Context, todo *models.TodoItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo.ID = r.nextID
	r.nextID++
	r.items = append(r.items, clone(todo))
	return nil
}

func (r *MemoryTodoRepository) Update(ctx context.Context, todo *models.TodoItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(todo.ID)
	if i < 0 {
		return ErrNotFound
	}
	r.items[i].Title = todo.Title
	r.items[i].IsCompleted = todo.IsCompleted
	return nil
}

func (r *MemoryTodoRepository) Toggle(ctx context.Context, id int64) (*models.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.items[i].IsCompleted = !r.items[i].IsCompleted
	return clone(r.items[i]), nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *MemoryTodoRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// indexOf вызывается под блокировкой
func (r *MemoryTodoRepository) indexOf(id int64) int {
	for i, t := range r.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(t *models.TodoItem) *models.TodoItem {
	c := *t
	return &c
}

func sortNewestFirst(todos []*models.TodoItem) {
	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID > todos[j].ID
		}
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
}
