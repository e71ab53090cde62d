// Package validation provides Brazilian document (CPF/CNPJ) checksum
// validation and related normalization helpers.
package validation

import "strings"

// NormalizeDocument strips every non-digit character from the input.
func NormalizeDocument(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCPF is an alias for NormalizeDocument, kept for call-site clarity.
func NormalizeCPF(s string) string {
	return NormalizeDocument(s)
}

// allSameDigit reports whether every byte of s equals the first one.
// Sequences like "11111111111" pass the módulo-11 checksum but are not
// valid documents.
func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// IsCPFValid validates a CPF using the módulo-11 check-digit algorithm.
// Input may be formatted ("527.857.852-15") or raw digits.
func IsCPFValid(input string) bool {
	cpf := NormalizeDocument(input)
	if len(cpf) != 11 || allSameDigit(cpf) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(cpf[i]-'0') * (10 - i)
	}
	d1 := (sum * 10) % 11
	if d1 == 10 {
		d1 = 0
	}
	if d1 != int(cpf[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(cpf[i]-'0') * (11 - i)
	}
	d2 := (sum * 10) % 11
	if d2 == 10 {
		d2 = 0
	}
	return d2 == int(cpf[10]-'0')
}

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func cnpjCheckDigit(s string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(s[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// IsCNPJValid validates a CNPJ using the módulo-11 check-digit algorithm.
func IsCNPJValid(input string) bool {
	cnpj := NormalizeDocument(input)
	if len(cnpj) != 14 || allSameDigit(cnpj) {
		return false
	}
	d1 := cnpjCheckDigit(cnpj, cnpjWeightsFirst)
	d2 := cnpjCheckDigit(cnpj, cnpjWeightsSecond)
	return d1 == int(cnpj[12]-'0') && d2 == int(cnpj[13]-'0')
}

// FormatCPF renders raw digits as "000.000.000-00". Partial inputs are
// formatted as far as they go, matching what a masked input field shows.
func FormatCPF(cpf string) string {
	pure := NormalizeDocument(cpf)
	switch {
	case len(pure) <= 3:
		return pure
	case len(pure) <= 6:
		return pure[:3] + "." + pure[3:]
	case len(pure) <= 9:
		return pure[:3] + "." + pure[3:6] + "." + pure[6:]
	default:
		if len(pure) > 11 {
			pure = pure[:11]
		}
		return pure[:3] + "." + pure[3:6] + "." + pure[6:9] + "-" + pure[9:]
	}
}
