package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"vc7day/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateInput runs struct tag validation and reports the first failure as
// a VALIDATION_ERROR naming the field by its json name.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewValidationError(err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return models.NewValidationError(fmt.Sprintf("%s is required", field))
	case "gt":
		return models.NewValidationError(fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
	case "lte":
		return models.NewValidationError(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	case "max":
		return models.NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	case "oneof":
		return models.NewValidationError(fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
	case "url":
		return models.NewValidationError(fmt.Sprintf("%s must be a valid URL", field))
	default:
		return models.NewValidationError(fmt.Sprintf("%s is invalid", field))
	}
}
