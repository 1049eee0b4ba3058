package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sun1tar/todo-app/services/todo/internal/models"

	_ "modernc.org/sqlite"
)

// AUTOINCREMENT гарантирует, что id удалённых записей не переиспользуются
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
)`

// SQLiteTodoRepository хранит записи в файле SQLite (WAL)
type SQLiteTodoRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteTodoRepository(dbPath string) (*SQLiteTodoRepository, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// одно соединение: SQLite всё равно сериализует запись
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteTodoRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteTodoRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteTodoRepository) Create(ctx context.Context, todo *models.TodoItem) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, is_completed, created_at) VALUES (?, ?, ?)`,
		todo.Title, boolToInt(todo.IsCompleted), formatTime(todo.CreatedAt))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	todo.ID = id
	return nil
}

func (r *SQLiteTodoRepository) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, is_completed, created_at FROM todos WHERE id = ?`, id)
	todo, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return todo, err
}

func (r *SQLiteTodoRepository) List(ctx context.Context) ([]*models.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, is_completed, created_at FROM todos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*models.TodoItem{}
	for rows.Next() {
		todo, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// сортируем в Go: created_at хранится текстом с переменной длиной дробной части
	sortNewestFirst(todos)
	return todos, nil
}

func (r *SQLiteTodoRepository) Update(ctx context.Context, todo *models.TodoItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, is_completed = ? WHERE id = ?`,
		todo.Title, boolToInt(todo.IsCompleted), todo.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *SQLiteTodoRepository) Toggle(ctx context.Context, id int64) (*models.TodoItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE todos SET is_completed = 1 - is_completed WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if err := expectOneRow(result); err != nil {
		return nil, err
	}
	todo, err := scanSQLite(tx.QueryRowContext(ctx,
		`SELECT id, title, is_completed, created_at FROM todos WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return todo, nil
}

func (r *SQLiteTodoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func (r *SQLiteTodoRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(s rowScanner) (*models.TodoItem, error) {
	var (
		todo      models.TodoItem
		completed int
		createdAt string
	)
	if err := s.Scan(&todo.ID, &todo.Title, &completed, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	todo.IsCompleted = completed != 0
	todo.CreatedAt = ts
	return &todo, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
