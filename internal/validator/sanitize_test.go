package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextInput(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"João da Silva", 60, "João da Silva"},
		{"D'Ávila-Souza, Jr.", 60, "D'Ávila-Souza, Jr."},
		{"<script>alert(1)</script>", 60, "scriptalert1script"},
		{"São Paulo 🚀", 60, "São Paulo "},
		{"Ana\tMaria\n", 60, "AnaMaria"},
		{"Иван", 60, ""},
		{"abcdef", 3, "abc"},
		{"a$b$c$d", 3, "abc"},
		{"ilimitado", 0, "ilimitado"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeTextInput(tc.in, tc.max), "input %q", tc.in)
	}
}

func TestSanitizeTextInput_Idempotent(t *testing.T) {
	inputs := []string{
		"", "José", "<b>Maria</b>", "Rua 7 de Setembro, 123 - apto. 4",
		"ñandú çedilha ÿ", "💥💥💥", "a\x00b\x7fc", "Conceiçãó",
		"混合 text 123", "---...,,,'''",
	}
	for _, in := range inputs {
		for _, max := range []int{0, 1, 5, 60} {
			once := SanitizeTextInput(in, max)
			assert.Equal(t, once, SanitizeTextInput(once, max), "input %q max %d", in, max)
		}
	}
}
