package validators

import (
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

// NotBlank rejects strings made only of whitespace. "required" alone lets
// them through.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Register installs the custom rules and makes validation errors report json
// field names.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("notblank", NotBlank)

	validate.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
