package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sun1tar/todo-app/services/todo/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id           BIGSERIAL PRIMARY KEY,
	title        VARCHAR(200) NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL
)`

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodoRepository(dsn string) (*PostgresTodoRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err = db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresTodoRepository{db: db}, nil
}

func (r *PostgresTodoRepository) Close() error {
	return r.db.Close()
}

// Create возвращает в todo сохранённый created_at: TIMESTAMPTZ округляет до микросекунд
func (r *PostgresTodoRepository) Create(ctx context.Context, todo *models.TodoItem) error {
	query := `INSERT INTO todos (title, is_completed, created_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	var stored time.Time
	if err := r.db.QueryRowContext(ctx, query, todo.Title, todo.IsCompleted, todo.CreatedAt).Scan(&todo.ID, &stored); err != nil {
		return err
	}
	todo.CreatedAt = stored.UTC()
	return nil
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	query := `SELECT id, title, is_completed, created_at FROM todos WHERE id = $1`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresTodoRepository) List(ctx context.Context) ([]*models.TodoItem, error) {
	query := `SELECT id, title, is_completed, created_at FROM todos ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*models.TodoItem{}
	for rows.Next() {
		todo := &models.TodoItem{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.IsCompleted, &todo.CreatedAt); err != nil {
			return nil, err
		}
		todo.CreatedAt = todo.CreatedAt.UTC()
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *PostgresTodoRepository) Update(ctx context.Context, todo *models.TodoItem) error {
	query := `UPDATE todos SET title = $1, is_completed = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, todo.Title, todo.IsCompleted, todo.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *PostgresTodoRepository) Toggle(ctx context.Context, id int64) (*models.TodoItem, error) {
	query := `UPDATE todos SET is_completed = NOT is_completed WHERE id = $1
              RETURNING id, title, is_completed, created_at`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *PostgresTodoRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n)
	return n, err
}

func scanOne(row *sql.Row) (*models.TodoItem, error) {
	todo := &models.TodoItem{}
	err := row.Scan(&todo.ID, &todo.Title, &todo.IsCompleted, &todo.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	todo.CreatedAt = todo.CreatedAt.UTC()
	return todo, nil
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
