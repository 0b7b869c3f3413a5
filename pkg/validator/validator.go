package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report field errors by their JSON names, the ones clients send
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		return ValidLat(fl.Field().Float())
	})
	validate.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		return ValidLng(fl.Field().Float())
	})
}

func ValidLat(lat float64) bool { return lat >= -90 && lat <= 90 }

func ValidLng(lng float64) bool { return lng >= -180 && lng <= 180 }

// ValidateStruct runs s's validate tags. Field failures are joined into one
// "field: rule" message.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}
