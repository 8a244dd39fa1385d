package escpos

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// --- Text & Money Formatting ---

var currencySymbols = map[string]string{
	"USD": "$",
	"COP": "$",
	"MXN": "$",
	"ARS": "$",
	"CLP": "$",
	"EUR": "€",
	"BRL": "R$",
	"PEN": "S/",
}

// FormatMoney renders an amount with exactly two fraction digits, comma
// thousands separators and the currency's customary symbol prefix. Unknown
// codes fall back to "$". Never fails; NaN/Inf coerce to 0.
func FormatMoney(amount float64, currency string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = "$"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	return sign + symbol + groupThousands(s[:dot]) + s[dot:]
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// PadLine right-pads label and right-aligns value so the line is exactly
// width columns. When label+value already exceed the width the filler is
// clamped to one space and the line overflows; that matches the printed
// behavior and is not treated as an error.
func PadLine(label, value string, width int) string {
	filler := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if filler < 1 {
		filler = 1
	}
	return label + strings.Repeat(" ", filler) + value
}

// TruncateItemName shortens name so prefix+name+pad+total fits in width
// columns with at least one space of padding.
func TruncateItemName(name, prefix, total string, width int) string {
	max := width - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(total) - 1
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(name) <= max {
		return name
	}
	runes := []rune(name)
	return strings.TrimRight(string(runes[:max]), " ")
}

// Columns maps paper width in millimeters to printable columns.
func Columns(paperWidth int) int {
	if paperWidth == 58 {
		return 32
	}
	return 48
}
