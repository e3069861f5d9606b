package validator

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)

const maxPhoneDigits = 11

// FormatPhone накладывает маску по мере ввода:
// "11" -> "(11", "119876" -> "(11) 9876", "1134567890" -> "(11) 3456-7890",
// "11987654321" -> "(11) 98765-4321". Лишние цифры после 11-й отбрасываются.
func FormatPhone(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > maxPhoneDigits {
		digits = digits[:maxPhoneDigits]
	}

	n := len(digits)
	switch {
	case n == 0:
		return ""
	case n <= 2:
		return "(" + digits
	case n <= 6:
		return "(" + digits[:2] + ") " + digits[2:]
	case n <= 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	default:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	}
}

// IsValidPhone проверяет готовый номер в формате (DD) DDDDD-DDDD или (DD) DDDD-DDDD
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizePhone приводит любой ввод к маске. ok=false, если цифр не 10 и не 11.
func NormalizePhone(raw string) (string, bool) {
	digits := DigitsOnly(raw)
	if len(digits) != 10 && len(digits) != 11 {
		return "", false
	}
	return FormatPhone(digits), true
}

func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
