package validation

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genDigits(n int) gopter.Gen {
	return gen.SliceOfN(n, gen.RuneRange('0', '9')).Map(func(rs []rune) string {
		return string(rs)
	})
}

func TestDocumentProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalization is idempotent", prop.ForAll(
		func(s string) bool {
			once := NormalizeDocument(s)
			return NormalizeDocument(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("CPF validity is unaffected by formatting", prop.ForAll(
		func(digits string) bool {
			return IsCPFValid(digits) == IsCPFValid(FormatCPF(digits))
		},
		genDigits(11),
	))

	properties.Property("repeated-digit CPFs are always rejected", prop.ForAll(
		func(d rune) bool {
			return !IsCPFValid(strings.Repeat(string(d), 11))
		},
		gen.RuneRange('0', '9'),
	))

	properties.Property("any length other than 11 is rejected", prop.ForAll(
		func(n int) bool {
			return !IsCPFValid(strings.Repeat("5", n))
		},
		gen.IntRange(0, 30).SuchThat(func(n int) bool { return n != 11 }),
	))

	properties.Property("formatting preserves the digit sequence", prop.ForAll(
		func(digits string) bool {
			return NormalizeDocument(FormatCPF(digits)) == digits
		},
		genDigits(11),
	))

	properties.TestingRun(t)
}
