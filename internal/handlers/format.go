package handlers

import (
	"strconv"
	"strings"
)

// formatFloat renders v with fixed decimals and thousands separators.
func formatFloat(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

func formatMoney(v float64) string { return "$" + formatFloat(v, 2) }

func formatInt(n int) string { return formatFloat(float64(n), 0) }
