package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCPFValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid raw digits", "52785785215", true},
		{"valid formatted", "529.982.247-25", true},
		{"repeated digits", "11111111111", false},
		{"repeated digits formatted", "000.000.000-00", false},
		{"wrong first check digit", "52785785225", false},
		{"wrong second check digit", "52785785214", false},
		{"too short", "5278578521", false},
		{"too long", "527857852155", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCPFValid(tt.input))
		})
	}
}

func TestIsCNPJValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid raw digits", "11222333000181", true},
		{"valid formatted", "11.222.333/0001-81", true},
		{"repeated digits", "11111111111111", false},
		{"wrong check digit", "11222333000182", false},
		{"cpf length", "52785785215", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCNPJValid(tt.input))
		})
	}
}

func TestNormalizeDocument(t *testing.T) {
	assert.Equal(t, "52785785215", NormalizeDocument("527.857.852-15"))
	assert.Equal(t, "", NormalizeDocument(""))
	assert.Equal(t, "123", NormalizeDocument(" 1a2b3c "))
}

func TestFormatCPF(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"527", "527"},
		{"527857", "527.857"},
		{"527857852", "527.857.852"},
		{"5278578521", "527.857.852-1"},
		{"52785785215", "527.857.852-15"},
		{"527.857.852-15", "527.857.852-15"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCPF(tt.input))
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"jose.silva@gmail.com", "jo***@g***.com"},
		{"ab@x.com", "a***@x***.com"},
		{"a@bc.com", "a***@b***.com"},
		{"not-an-email", "***@***.com"},
		{"", "***@***.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskEmail(tt.input))
	}
}
