package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type phoneInput struct {
	Phone string `validate:"required,number,min=10"`
}

type loginInput struct {
	Phone string `validate:"required,number"`
	Pin   string `validate:"required,number,len=4"`
}

type depositInput struct {
	Amount int64 `validate:"gte=500,lte=1000000000000000"`
}

type withdrawalInput struct {
	Amount int64 `validate:"gt=0,lte=1000000000000000"`
}

// validateStruct returns the first failing field as a *ValidationError.
func validateStruct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Message: errorMessage(fe),
	}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "number":
		return "must contain digits only"
	case "len":
		return "must be exactly " + fe.Param() + " digits"
	case "min":
		return "must be at least " + fe.Param() + " digits"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "invalid value"
	}
}
