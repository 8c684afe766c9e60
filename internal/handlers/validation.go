package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var internalPathPattern = regexp.MustCompile(`^/[a-zA-Z0-9/_-]*$`)

// RegisterValidations installs custom binding tags on gin's validator engine.
// Call once at startup, before routes are served.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("internalpath", validateInternalPath)
	}
}

func validateInternalPath(fl validator.FieldLevel) bool {
	return internalPathPattern.MatchString(fl.Field().String())
}
