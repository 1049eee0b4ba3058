package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sun1tar/todo-app/services/todo/internal/models"
)

type titleInput struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// в ошибках используем json-имена полей
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateTitle проверяет заголовок: не пустой и не длиннее models.TitleMaxLength символов
func ValidateTitle(title string) error {
	err := validate.Struct(titleInput{Title: title})
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	verr := &ValidationError{Errors: map[string][]string{}}
	for _, fe := range fieldErrs {
		verr.Errors[fe.Field()] = append(verr.Errors[fe.Field()], message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must be at most %d characters long.", fe.Field(), models.TitleMaxLength)
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
