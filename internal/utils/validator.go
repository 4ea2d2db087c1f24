package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail represents the structure of a single validation error.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// ValidationErrorData represents the data field in the validation error response.
type ValidationErrorData struct {
	Errors        []ValidationErrorDetail `json:"errors"`
	Documentation string                  `json:"documentation"`
}

const DocumentationLink = "/swagger/index.html"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// reservedSlugs are path segments routed ahead of /:slug.
var reservedSlugs = map[string]bool{
	"categories": true,
}

// IsReservedSlug reports whether s collides with a static content route.
func IsReservedSlug(s string) bool {
	return reservedSlugs[s]
}

// ValidationError is returned by services when a model fails its validate tags.
type ValidationError struct {
	Details []ValidationErrorDetail
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Validator checks structs against their `validate` tags and reports JSON field names.
type Validator struct {
	validator *validator.Validate
}

var (
	defaultValidator     *Validator
	defaultValidatorOnce sync.Once
)

// NewValidator returns a validator with the custom rules and JSON field naming registered.
func NewValidator() *Validator {
	v := validator.New()
	configure(v)
	return &Validator{validator: v}
}

// DefaultValidator is the shared instance used by services.
func DefaultValidator() *Validator {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// Validate returns a *ValidationError when obj is invalid, or nil.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validator.Struct(obj)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	return &ValidationError{Details: detailsFrom(errs)}
}

// RegisterBindingValidators applies the same rules to gin's binding validator.
func RegisterBindingValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return slugPattern.MatchString(s) && !IsReservedSlug(s)
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

func detailsFrom(errs validator.ValidationErrors) []ValidationErrorDetail {
	out := make([]ValidationErrorDetail, 0, len(errs))
	for _, e := range errs {
		detail := ValidationErrorDetail{
			Field:    e.Field(),
			Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", e.Field(), e.Tag()),
			Expected: e.Param(),
			Received: e.Value(),
		}
		if detail.Expected == "" {
			detail.Expected = e.Tag()
		}

		switch e.Tag() {
		case "required":
			detail.Message = fmt.Sprintf("Field '%s' is required", e.Field())
			detail.Expected = "not null"
		case "min":
			detail.Message = fmt.Sprintf("Field '%s' must be at least %s long", e.Field(), e.Param())
			detail.Expected = fmt.Sprintf("min %s", e.Param())
		case "max":
			detail.Message = fmt.Sprintf("Field '%s' must be at most %s long", e.Field(), e.Param())
			detail.Expected = fmt.Sprintf("max %s", e.Param())
		case "url":
			detail.Message = fmt.Sprintf("Field '%s' must be a valid URL", e.Field())
			detail.Expected = "url"
		case "oneof":
			detail.Message = fmt.Sprintf("Field '%s' must be one of: %s", e.Field(), e.Param())
		case "slug":
			detail.Message = fmt.Sprintf("Field '%s' must contain only lowercase letters, numbers and single hyphens and must not be a reserved word", e.Field())
			detail.Expected = "slug"
		}

		out = append(out, detail)
	}
	return out
}

// RespondValidationError writes the standard 400 body for the given details.
func RespondValidationError(c *gin.Context, details []ValidationErrorDetail) {
	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: "Invalid request parameters",
		Data: ValidationErrorData{
			Errors:        details,
			Documentation: DocumentationLink,
		},
	})
}

// BindAndValidate binds the request body to the given object and validates it.
// If validation fails, it sends a formatted error response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var (
		validationErrors []ValidationErrorDetail
		errs             validator.ValidationErrors
		typeErr          *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &errs):
		validationErrors = detailsFrom(errs)
	case errors.As(err, &typeErr):
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		})
	default:
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}

	RespondValidationError(c, validationErrors)
	return false
}
