package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"market/constants"
	apperrors "market/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

// RegisterCustom adds the "date" (dd/mm/yyyy) and "hhmm" tags to gin's
// validator engine.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return register(v)
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(constants.DateLayout, fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(constants.TimeLayout, fl.Field().String())
		return err == nil
	})
}

// FieldErrors converts a binding error into field → message pairs.
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[jsonName(fe.Field())] = message(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		fields[typeErr.Field] = fmt.Sprintf("must be a %s", typeErr.Type.String())
		return fields
	}

	fields["body"] = err.Error()
	return fields
}

// BindingError wraps a ShouldBind error as a 400 AppError.
func BindingError(err error) error {
	return apperrors.NewValidationError(FieldErrors(err))
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "date":
		return "must use the dd/mm/yyyy format"
	case "hhmm":
		return "must use the HH:MM format"
	default:
		return "is invalid"
	}
}

// ParseDate parses a dd/mm/yyyy value as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid date, expected dd/mm/yyyy", err)
	}
	return t, nil
}

// ParseSlot validates a booking slot and returns the date part.
func ParseSlot(date, slot string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	if _, err := time.Parse(constants.TimeLayout, slot); err != nil {
		return time.Time{}, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid time, expected HH:MM", err)
	}
	return d, nil
}

// ValidateEmail kiểm tra email hợp lệ
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError(map[string]string{"email": "must be a valid email"})
	}
	return nil
}

// ValidatePhone kiểm tra số điện thoại hợp lệ
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return apperrors.NewValidationError(map[string]string{"phoneNumber": "must be 10 digits"})
	}
	return nil
}

// ValidatePassword kiểm tra mật khẩu hợp lệ
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError(map[string]string{"password": "must be at least 8 characters"})
	}
	return nil
}

// ValidateStar checks a review rating.
func ValidateStar(star int) error {
	if star < 1 || star > 5 {
		return apperrors.NewValidationError(map[string]string{"star": "must be between 1 and 5"})
	}
	return nil
}
