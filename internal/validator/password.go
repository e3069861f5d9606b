package validator

import "unicode"

const MinPasswordLength = 8

// PasswordChecks - отдельные классы символов, из которых складывается оценка
type PasswordChecks struct {
	Length    bool `json:"length"`
	MixedCase bool `json:"mixed_case"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

// Strength - результат оценки пароля для подсказки в форме.
// Valid - базовое правило (не короче 8), ValidStrict - правило для исполнителей.
type Strength struct {
	Score       int            `json:"score"`
	Label       string         `json:"label"`
	Valid       bool           `json:"valid"`
	ValidStrict bool           `json:"valid_strict"`
	Checks      PasswordChecks `json:"checks"`
}

var strengthLabels = [...]string{
	0: "Muito fraca",
	1: "Muito fraca",
	2: "Fraca",
	3: "Média",
	4: "Forte",
}

func PasswordStrength(password string) Strength {
	var length int
	var upper, lower, digit, symbol bool
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	checks := PasswordChecks{
		Length:    length >= MinPasswordLength,
		MixedCase: upper && lower,
		Digit:     digit,
		Symbol:    symbol,
	}

	score := 0
	for _, ok := range []bool{checks.Length, checks.MixedCase, checks.Digit, checks.Symbol} {
		if ok {
			score++
		}
	}

	return Strength{
		Score:       score,
		Label:       strengthLabels[score],
		Valid:       checks.Length,
		ValidStrict: score == 4,
		Checks:      checks,
	}
}
