package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// amountPat is the textual form of a Rand amount: the R symbol, optional
// space, digits with optional comma thousands separators and up to two
// decimals. Reused by every matcher that needs an amount.
const amountPat = `R\s?[0-9][0-9,]*(?:\.[0-9]{1,2})?`

var amountRe = regexp.MustCompile(amountPat)

// ParseAmount parses a displayed amount ("R8,000.00", "R 45.5") into its
// numeric value. The currency symbol, spaces and thousands separators are
// stripped before parsing.
func ParseAmount(s string) (float64, bool) {
	cleaned := strings.NewReplacer("R", "", " ", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a value in the household display format: R symbol,
// comma thousands separators, two decimals.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(whole, ".")

	var sb strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}

	out := "R" + sb.String() + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// ContainsAmount reports whether the text carries a recognizable amount.
func ContainsAmount(s string) bool {
	return amountRe.MatchString(s)
}
