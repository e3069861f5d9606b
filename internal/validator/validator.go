package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError - карта "поле" -> "сообщение"
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("Validation failed: ")
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "field '%s': %s", field, e.Errors[field])
	}
	return b.String()
}

type Validator struct {
	validate *validator.Validate
}

// New: имена полей берутся из json-тегов (или form для query DTO)
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	registerCustomRules(v)
	return &Validator{validate: v}
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// Validate возвращает *ValidationError при нарушении правил
func (v *Validator) Validate(i interface{}) error {
	return convert(v.validate.Struct(i), "")
}

// Var проверяет одно значение, например Var("email", s, "required,email")
func (v *Validator) Var(field string, value interface{}, tag string) error {
	return convert(v.validate.Var(value, tag), field)
}

// convert переводит ошибки библиотеки в ValidationError. Для Var у
// FieldError нет имени поля, поэтому оно передается явно.
func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		if _, seen := out[name]; !seen {
			out[name] = message(fe)
		}
	}
	return &ValidationError{Errors: out}
}

var fixedMessages = map[string]string{
	"required":        "This field is required",
	"email":           "Must be a valid email address",
	"eqfield":         "Passwords do not match",
	"url":             "Must be a valid URL",
	"uuid":            "Must be a valid UUID",
	"br-phone":        "Phone must look like (DD) DDDDD-DDDD or (DD) DDDD-DDDD",
	"category-key":    "Unknown category",
	"strong-password": "Password must have upper and lower case letters, a digit and a symbol",
	"sanitized":       "Contains characters that are not allowed",
	"accepted":        "You must accept the terms",
}

func message(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters long"
	}
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s%s", fe.Param(), unit)
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s%s", fe.Param(), unit)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
}
