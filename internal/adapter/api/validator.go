package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"chatmarket/internal/usecase"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() echo.Validator {
	v := validator.New()
	usecase.RegisterValidations(v)
	return &CustomValidator{validator: v}
}

// Validate returns validator.ValidationErrors untouched so response.Error can
// render the failing field.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
