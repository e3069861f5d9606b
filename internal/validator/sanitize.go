package validator

import (
	"strings"
	"unicode"
)

// SanitizeTextInput оставляет латиницу (включая буквы с диакритикой), цифры,
// пробел и символы . , ' - и обрезает до maxLen рун (0 - без ограничения).
// Функция идемпотентна: повторный вызов ничего не меняет.
func SanitizeTextInput(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))

	count := 0
	for _, r := range s {
		if !allowedRune(r) {
			continue
		}
		if maxLen > 0 && count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

func allowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == ' ', r == '.', r == ',', r == '\'', r == '-':
		return true
	case unicode.IsLetter(r) && unicode.Is(unicode.Latin, r):
		return true
	default:
		return false
	}
}
