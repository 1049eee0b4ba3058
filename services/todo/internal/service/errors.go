package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sun1tar/todo-app/services/todo/internal/repository"
)

// ErrNotFound - записи с таким id нет
var ErrNotFound = repository.ErrNotFound

// ValidationError содержит ошибки по полям: имя поля -> сообщения
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Errors[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError - ошибка по одному полю
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Errors: map[string][]string{field: {msg}}}
}
