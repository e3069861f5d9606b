package validator

import (
	"log"

	"chamaai_backend/internal/catalog"
	"chamaai_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("br-phone", validateBRPhone)
	mustRegister("category-key", validateCategoryKey)
	mustRegister("strong-password", validateStrongPassword)
	mustRegister("sanitized", validateSanitized)
	mustRegister("accepted", validateAccepted)
	mustRegister("user-type", validateUserType)
	mustRegister("request-status", validateRequestStatus)
}

// Пустые значения пропускаем: для этого есть 'required'.

func validateBRPhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return IsValidPhone(value)
}

func validateCategoryKey(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return catalog.IsKnown(value)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return PasswordStrength(value).ValidStrict
}

// 'sanitized': значение уже не меняется при очистке (без лимита длины)
func validateSanitized(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return SanitizeTextInput(value, 0) == value
}

// 'accepted': bool обязан быть true (чекбокс условий использования)
func validateAccepted(fl validator.FieldLevel) bool {
	return fl.Field().Bool()
}

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserType(value).IsValid()
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.RequestStatus(value) {
	case models.RequestStatusPending, models.RequestStatusInProgress, models.RequestStatusCompleted, models.RequestStatusCancelled:
		return true
	default:
		return false
	}
}
