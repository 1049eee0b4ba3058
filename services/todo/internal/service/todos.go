package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sun1tar/todo-app/services/todo/internal/models"
	"github.com/sun1tar/todo-app/services/todo/internal/repository"
)

type TodoService struct {
	repo   repository.TodoRepository
	logger *logrus.Logger
	now    func() time.Time
}

type Option func(*TodoService)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		s.now = now
	}
}

func NewTodoService(repo repository.TodoRepository, logger *logrus.Logger, opts ...Option) *TodoService {
	s := &TodoService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает все записи, новые первыми
func (s *TodoService) List(ctx context.Context) ([]*models.TodoItem, error) {
	todos, err := s.repo.List(ctx)
	observe("list", err)
	return todos, err
}

func (s *TodoService) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	todo, err := s.repo.GetByID(ctx, id)
	observe("get", err)
	return todo, err
}

// Create проверяет заголовок, назначает id и время создания
func (s *TodoService) Create(ctx context.Context, title string, isCompleted bool) (*models.TodoItem, error) {
	if err := ValidateTitle(title); err != nil {
		observe("create", err)
		return nil, err
	}

	todo := &models.TodoItem{
		Title:       title,
		IsCompleted: isCompleted,
		CreatedAt:   s.timestamp(),
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		observe("create", err)
		return nil, err
	}
	observe("create", nil)
	itemsGauge.Inc()

	s.logger.WithFields(logrus.Fields{
		"component": "todo_service",
		"todo_id":   todo.ID,
	}).Debug("todo stored")
	return todo, nil
}

// Update перезаписывает только title и isCompleted; id и createdAt не меняются
func (s *TodoService) Update(ctx context.Context, id int64, title string, isCompleted bool) (*models.TodoItem, error) {
	if err := ValidateTitle(title); err != nil {
		observe("update", err)
		return nil, err
	}

	err := s.repo.Update(ctx, &models.TodoItem{ID: id, Title: title, IsCompleted: isCompleted})
	if err != nil {
		observe("update", err)
		return nil, err
	}

	todo, err := s.repo.GetByID(ctx, id)
	observe("update", err)
	return todo, err
}

// Delete возвращает false, если записи не было
func (s *TodoService) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.repo.Delete(ctx, id)
	observe("delete", err)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	itemsGauge.Dec()
	return true, nil
}

// Toggle инвертирует isCompleted атомарно на стороне хранилища
func (s *TodoService) Toggle(ctx context.Context, id int64) (*models.TodoItem, error) {
	todo, err := s.repo.Toggle(ctx, id)
	observe("toggle", err)
	return todo, err
}

// SeedDefaults добавляет три примера, если хранилище пустое
func (s *TodoService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		now := s.timestamp()
		samples := []models.TodoItem{
			{Title: "Learn Go", IsCompleted: false, CreatedAt: now.Add(-48 * time.Hour)},
			{Title: "Build Todo REST API", IsCompleted: true, CreatedAt: now.Add(-24 * time.Hour)},
			{Title: "Create TODO App", IsCompleted: false, CreatedAt: now},
		}
		for i := range samples {
			if err := s.repo.Create(ctx, &samples[i]); err != nil {
				return err
			}
		}
		n = len(samples)
		s.logger.WithField("count", n).Info("store seeded with sample todos")
	}
	itemsGauge.Set(float64(n))
	return nil
}

// timestamp - время создания с точностью до микросекунд: точнее TIMESTAMPTZ не хранит,
// и ответ на POST должен совпадать с последующими GET
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func resultLabel(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}
