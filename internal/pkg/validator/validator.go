package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/places-service/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры; ошибки валидации превращаются в AppError
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			details := make(map[string]interface{}, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
			return apperrors.New(
				"INVALID_REQUEST",
				"Invalid request parameters",
				http.StatusBadRequest,
			).WithDetails(details)
		}
		return err
	}
	return nil
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
