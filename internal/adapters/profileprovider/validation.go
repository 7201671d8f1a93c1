package profileprovider

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/strutils"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors by request parameter name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("param")
	})

	err := v.RegisterValidation("minecraft_uuid", func(fl validator.FieldLevel) bool {
		_, err := strutils.NormalizeUUID(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to register minecraft_uuid validation: %w", err))
	}

	return v
}

// validateParams checks the struct tags of params and returns a *domain.ValidationError
// describing every offending parameter
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		panic(fmt.Errorf("logic error: invalid validation target: %w", err))
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = describe(fieldErr)
	}

	return &domain.ValidationError{Fields: fields}
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when no other identifier is given"
	case "excluded_with":
		return "cannot be combined with another identifier"
	case "number":
		return "must be a number"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
	case "minecraft_uuid":
		return "must be a Minecraft UUID"
	default:
		return "is invalid"
	}
}
