package auth

import "chamaai_backend/internal/models"

// RedirectFor - куда отправить пользователя после входа
func RedirectFor(userType models.UserType) string {
	if userType == models.UserTypeProvider {
		return "/painel-prestador"
	}
	return "/dashboard"
}

// VerificationRedirect - страница ожидания подтверждения email
const VerificationRedirect = "/verificar-email"

// IsProviderRole проверяет роль из claims
func IsProviderRole(role string) bool {
	return models.UserType(role) == models.UserTypeProvider
}
