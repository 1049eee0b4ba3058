package models

import "time"

// TitleMaxLength - максимальная длина заголовка в символах
const TitleMaxLength = 200

// TodoItem - запись списка дел. ID и CreatedAt назначает сервер и больше их не меняет.
type TodoItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}
