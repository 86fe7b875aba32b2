package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form names rather than Go names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	if err := validate.RegisterValidation("device_type", validateDeviceType); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("device_status", validateDeviceStatus); err != nil {
		panic(err)
	}
}

func validateDeviceType(fl validator.FieldLevel) bool {
	return inventory.Type(fl.Field().String()).IsKnown()
}

// validateDeviceStatus accepts the legacy running status so records that
// still carry it can be edited without changing their status.
func validateDeviceStatus(fl validator.FieldLevel) bool {
	return inventory.Status(fl.Field().String()).IsKnown()
}

// Validate checks that every required field is filled in and that type and
// status hold known values. Surrounding whitespace does not count as input.
// The first failing field is reported as a validation error.
func Validate(v Values) error {
	err := validate.Struct(v.Trimmed())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return gateway.NewValidationError("", err.Error())
	}

	first := verrs[0]
	return gateway.NewValidationError(first.Field(), fieldMessage(first))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "device_type":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), joinTypes(inventory.KnownTypes))
	case "device_status":
		return fmt.Sprintf("%s must be one of %s (or the legacy %s)",
			fe.Field(), joinStatuses(inventory.SelectableStatuses), inventory.StatusRunning)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func joinTypes(types []inventory.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinStatuses(statuses []inventory.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
