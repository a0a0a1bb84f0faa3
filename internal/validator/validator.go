package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"onversed_backend/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

// ValidationError — это кастомный тип ошибки, который содержит
// карту ошибок "поле" -> "тег ошибки" (@Error...).
type ValidationError struct {
	Errors map[string]string
}

// Error реализует стандартный интерфейс error.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errMsgs := make([]string, 0, len(fields))
	for _, field := range fields {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// Validator — это наша обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New()

	// Имена полей в ошибках берем из json-тегов DTO
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

// Validate выполняет валидацию переданной структуры.
// Если есть ошибки, возвращает *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	customErrors := make(map[string]string)
	for _, fe := range validationErrors {
		customErrors[fe.Field()] = string(errorTag(fe))
	}

	return &ValidationError{Errors: customErrors}
}

// errorTag переводит правило validator в клиентский тег
func errorTag(fe validator.FieldError) apperrors.Tag {
	switch fe.Tag() {
	case "required", "required_without":
		return apperrors.TagRequired
	case "email":
		return apperrors.TagEmailFormat
	case "min":
		return apperrors.TagMinLength
	case "max":
		return apperrors.TagMaxLength
	case "strong_password":
		return apperrors.TagPasswordFormat
	case "mobile_phone":
		return apperrors.TagMobilePhoneFormat
	default:
		return apperrors.TagNotValid
	}
}
