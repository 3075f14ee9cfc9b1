// Package validation wraps go-playground/validator with the rules the
// trading forms use and turns failures into domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

var (
	phonePattern    = regexp.MustCompile(`^[6-9]\d{9}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidPhone reports whether s is a 10-digit Indian mobile number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidUsername reports whether s is a gmail.com address.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// ValidPassword reports whether s has at least MinPasswordLength characters
// including a lowercase letter, an uppercase letter, a digit and a symbol.
// Underscore counts as a symbol.
func ValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r == '\n' || r == '\r':
			return false
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// accountMatchesRole checks that admin forms carry the admin account type and
// user forms one of the user account types.
func accountMatchesRole(fl validator.FieldLevel) bool {
	account := fl.Field().String()
	role := fl.Parent().FieldByName("Role")
	if !role.IsValid() {
		return account != ""
	}
	switch role.String() {
	case domain.RoleAdmin:
		return account == domain.AccountAdmin
	case domain.RoleUser:
		for _, a := range domain.UserAccountTypes {
			if account == a {
				return true
			}
		}
		return false
	}
	return false
}

// messager is implemented by forms that carry their own per-field copy.
type messager interface {
	ValidationMessage(field string) string
}

// Validator validates form structs.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	rules := map[string]validator.Func{
		"indian_mobile":    func(fl validator.FieldLevel) bool { return ValidPhone(fl.Field().String()) },
		"gmail":            func(fl validator.FieldLevel) bool { return ValidUsername(fl.Field().String()) },
		"strong_password":  func(fl validator.FieldLevel) bool { return ValidPassword(fl.Field().String()) },
		"account_for_role": accountMatchesRole,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %s: %v", tag, err))
		}
	}

	return &Validator{v: v}
}

// Struct validates i. Failures come back as *domain.ValidationError keyed by
// json field name.
func (v *Validator) Struct(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	m, _ := i.(messager)

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		msg := ""
		if m != nil {
			msg = m.ValidationMessage(name)
		}
		if msg == "" {
			msg = fieldError(fe)
		}
		fields[name] = msg
	}
	return &domain.ValidationError{Fields: fields}
}

// Validate satisfies echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}

// fieldError converts a single FieldError into a readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email", "gmail":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "indian_mobile":
		return field + " must be a valid 10-digit mobile number"
	case "strong_password":
		return field + " must have 8+ chars with uppercase, lowercase, number & symbol"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
