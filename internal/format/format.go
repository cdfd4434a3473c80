// Package format renders prices, discounts and text snippets for storefront payloads.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/constants"
)

const RequestQuote = "Request Quote"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// FormatPrice renders price with Indian digit grouping (12,34,567.50). A nil price means the
// product is sold on quotation only.
func FormatPrice(price *decimal.Decimal, currency string) string {
	if price == nil {
		return RequestQuote
	}
	if currency == "" {
		currency = constants.DefaultCurrencySymbol
	}

	rounded := price.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	integer := rounded.Truncate(0)
	fraction := rounded.Sub(integer)

	out := currency + sign + groupIndian(integer.String())
	if !fraction.IsZero() {
		digits := strings.TrimRight(fraction.StringFixed(2)[2:], "0")
		out += "." + digits
	}
	return out
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	groups := []string{}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatDiscount returns e.g. "25% OFF". Non positive original prices yield an empty string.
func FormatDiscount(original, sale decimal.Decimal) string {
	if !original.IsPositive() {
		return ""
	}
	pct := original.Sub(sale).Div(original).Mul(decimal.NewFromInt(100)).Round(0)
	return pct.String() + "% OFF"
}

func TruncateText(text string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
