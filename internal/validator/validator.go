// Package validator wraps go-playground/validator with a gin bind+validate
// helper returning the service's uniform bad_request error shape.
package validator

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
)

var validate = validator.New()

// ValidateRequest validates a struct and returns a field->message map, or
// nil if valid.
func ValidateRequest(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			errs[strings.ToLower(e.Field())] = formatValidationError(e)
		}
	}
	return errs
}

// BindAndValidate binds the request JSON into req and validates it,
// aborting the request with bad_request on either failure. Returns true
// when the caller may proceed.
func BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid request body: "+err.Error()))
		return false
	}
	if errs := ValidateRequest(req); errs != nil {
		apperr.Abort(c, apperr.BadRequest(fmt.Sprintf("validation failed: %v", errs)))
		return false
	}
	return true
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
