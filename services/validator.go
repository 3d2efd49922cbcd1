package services

import (
	"product-catalog/models"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that also understands the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}
