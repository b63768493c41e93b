package validate

import (
	"SmartBus/internal/lib/errs"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	cinPattern  = regexp.MustCompile(`^\d{8}$`)
	rfidPattern = regexp.MustCompile(`^[A-Za-z0-9]{8,16}$`)
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("cin", func(fl validator.FieldLevel) bool {
			return Cin(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String())
		})
		_ = v.RegisterValidation("rfid", func(fl validator.FieldLevel) bool {
			return RFID(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Cin reports whether s is an 8-digit national ID code.
func Cin(s string) bool {
	return cinPattern.MatchString(s)
}

// Phone reports whether s is 8 to 12 characters long.
func Phone(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 8 && n <= 12
}

// RFID reports whether s is an 8 to 16 character alphanumeric code.
func RFID(s string) bool {
	return rfidPattern.MatchString(s)
}

// Struct validates s against its `validate` tags. Violations are returned
// as a single errs.InvalidInput listing every offending field.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs.Wrap(errs.Internal, "validate", err)
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, describe(fe))
	}
	return errs.Invalid(fields...)
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "cin":
		return name + " must be an 8-digit national ID"
	case "phone":
		return name + " must be 8 to 12 characters"
	case "rfid":
		return name + " must be 8 to 16 alphanumeric characters"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}
