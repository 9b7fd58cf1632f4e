package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request bodies.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator used by all handlers.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate runs struct tag validation and converts failures into a 400
// response with the first failing field named.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return echo.NewHTTPError(http.StatusBadRequest,
				echo.Map{"error": "validation failed", "field": f.Field(), "rule": f.Tag()})
		}
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"error": "validation failed"})
	}
	return nil
}
