package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PromptValidator accepts strings that still have content after trimming.
func PromptValidator(fl validator.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() != reflect.String {
		return false
	}

	return len(strings.TrimSpace(field.String())) > 0
}

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()
	err := validate.RegisterValidation("prompt_text", PromptValidator)
	if err != nil {
		return nil, err
	}
	return validate, nil
}
