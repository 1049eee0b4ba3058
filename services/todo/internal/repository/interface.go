package repository

import (
	"context"
	"errors"

	"github.com/sun1tar/todo-app/services/todo/internal/models"
)

// ErrNotFound возвращается, когда записи с таким id нет
var ErrNotFound = errors.New("todo not found")

// TodoRepository - хранилище записей. Реализации сами сериализуют доступ:
// HTTP-сервер обрабатывает запросы конкурентно.
type TodoRepository interface {
	// List возвращает записи по убыванию CreatedAt (при равенстве - по убыванию ID)
	List(ctx context.Context) ([]*models.TodoItem, error)
	GetByID(ctx context.Context, id int64) (*models.TodoItem, error)
	// Create назначает следующий id и записывает его в todo.ID
	Create(ctx context.Context, todo *models.TodoItem) error
	// Update меняет только Title и IsCompleted
	Update(ctx context.Context, todo *models.TodoItem) error
	// Toggle атомарно инвертирует IsCompleted и возвращает обновлённую запись
	Toggle(ctx context.Context, id int64) (*models.TodoItem, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Close() error
}
