package middleware

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Largest values the INTEGER quantity and NUMERIC(14,2) total columns hold.
// Unit prices are bounded by the money tag on each field.
const (
	MaxQuantity = math.MaxInt32
	MaxAmount   = 999999999999.99
)

// Validator instance
var validate *validator.Validate

var msisdnPattern = regexp.MustCompile(`^(\+254|254|0)?[17][0-9]{8}$`)

func init() {
	validate = validator.New()

	// Report fields by the names clients send
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	validate.RegisterValidation("nonnegint", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 32)
		return err == nil && n >= 0
	})

	// money=<max> accepts strings and floats holding a non-negative amount of
	// at most two decimal places, up to max
	validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		var amount float64
		switch fl.Field().Kind() {
		case reflect.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
			if err != nil {
				return false
			}
			amount = f
		case reflect.Float32, reflect.Float64:
			amount = fl.Field().Float()
		default:
			return false
		}

		limit, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return IsMoney(amount) && amount <= limit
	})

	validate.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(NormalizePhone(fl.Field().String()))
	})
}

// NormalizePhone removes the spaces customers type inside phone numbers
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// IsMoney reports whether amount is finite, non-negative and written with at
// most two decimal places
func IsMoney(amount float64) bool {
	if amount < 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return false
	}
	digits := strconv.FormatFloat(amount, 'f', -1, 64)
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		return len(digits)-dot-1 <= 2
	}
	return true
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeJSON decodes a JSON request body without validating it
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// IsValidationError reports whether err came from the validator rather than
// from decoding
func IsValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	formatted := []ValidationError{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			formatted = append(formatted, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return formatted
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "nonnegint":
		return "Must be a whole number between 0 and " + strconv.Itoa(MaxQuantity)
	case "money":
		return "Must be a non-negative amount with at most two decimal places, up to " + e.Param()
	case "msisdn":
		return "Must be a valid Kenyan mobile number"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
