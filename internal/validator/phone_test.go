package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"11987654321", "(11) 98765-4321"},
		{"1134567890", "(11) 3456-7890"},
		{"", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"119876", "(11) 9876"},
		{"1198765", "(11) 9876-5"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"11 98765 4321 999", "(11) 98765-4321"},
		{"abc", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPhone(tc.in), "input %q", tc.in)
	}
}

func TestFormatPhone_IsStableOnFormattedInput(t *testing.T) {
	for _, raw := range []string{"11987654321", "1134567890", "2199"} {
		once := FormatPhone(raw)
		assert.Equal(t, once, FormatPhone(once))
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("(11) 98765-4321"))
	assert.True(t, IsValidPhone("(11) 3456-7890"))
	assert.False(t, IsValidPhone("11987654321"))
	assert.False(t, IsValidPhone("(11) 987-4321"))
	assert.False(t, IsValidPhone("(11)98765-4321"))
}

func TestNormalizePhone(t *testing.T) {
	p, ok := NormalizePhone("+55 11 98765-4321")
	assert.False(t, ok, "13 digits are not a national number")
	assert.Empty(t, p)

	p, ok = NormalizePhone("11 3456 7890")
	assert.True(t, ok)
	assert.Equal(t, "(11) 3456-7890", p)
}
