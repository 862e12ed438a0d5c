package handlers

import (
	"reflect"
	"strings"
	"time"

	"yamdb/internal/models"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names and knows
// the slug, username and notfuture tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return models.ValidSlug(fl.Field().String())
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidateUsername(fl.Field().String(), nil) == nil
	})
	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return models.ValidateYear(int(fl.Field().Int()), time.Now()) == nil
	})
	return v
}
