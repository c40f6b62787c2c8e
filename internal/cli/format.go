package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount with two decimals and thousands
// separators, e.g. -$1,234.50. Rounding is half away from zero.
func FormatCurrency(amount float64, symbol string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	str := d.Abs().StringFixed(2)

	parts := strings.SplitN(str, ".", 2)
	result := symbol + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPnL formats P&L with an explicit sign on gains.
func FormatPnL(pnl float64, symbol string) string {
	formatted := FormatCurrency(pnl, symbol)
	if decimal.NewFromFloat(pnl).Round(2).IsPositive() {
		return "+" + formatted
	}
	return formatted
}

// FormatPercent formats a percentage value, 25 -> "25.00%".
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatPrice formats a stock price.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatDays formats a day count without trailing zeros.
func FormatDays(days float64) string {
	return strconv.FormatFloat(days, 'f', -1, 64)
}

// FormatGreek formats a Greek estimate to four decimals.
func FormatGreek(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// FormatDateTime formats a timestamp in local time.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("02-Jan-2006 15:04")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	w := displayWidth(s)
	if w >= length {
		return s
	}
	return strings.Repeat(" ", length-w) + s
}
