package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayPrecision is the maximum number of fraction digits shown for
// result values.
const DisplayPrecision = 2

// Formatter renders numbers for one locale: grouped integer part, locale
// decimal separator.
type Formatter struct {
	tag        language.Tag
	printer    *message.Printer
	decimalSep string
}

// defaultFormatter uses English grouping ("10,000.5").
//
//nolint:gochecknoglobals // Shared read-only printer, as x/text/message intends.
var defaultFormatter = newFormatter(language.English)

// NewFormatter returns a formatter for a BCP 47 locale such as "en" or "nb-NO".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidLocale, locale, err)
	}
	return newFormatter(tag), nil
}

// DefaultFormatter returns the English formatter.
func DefaultFormatter() *Formatter { return defaultFormatter }

func newFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	// The printer knows the separator; recover it from a known value.
	sep := strings.Trim(p.Sprintf("%.1f", 1.5), "15")
	if sep == "" {
		sep = "."
	}
	return &Formatter{tag: tag, printer: p, decimalSep: sep}
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Number formats an integer with locale grouping.
// Example: Number(18248) returns "18,248" for English.
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Display rounds v half away from zero to at most DisplayPrecision digits,
// drops trailing zeros and groups the integer part.
// Example: Display(833.3333) returns "833.33", Display(10000) returns "10,000".
func (f *Formatter) Display(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// decimal.String trims trailing zeros.
	return f.group(decimal.NewFromFloat(v).Round(DisplayPrecision).String())
}

// Fixed formats v with exactly precision fraction digits.
// Example: Fixed(1234.567, 2) returns "1,234.57".
func (f *Formatter) Fixed(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	//nolint:gosec // precision is a small display width.
	return f.group(decimal.NewFromFloat(v).StringFixed(int32(precision)))
}

// group inserts locale grouping into a plain "-1234.5" style string.
func (f *Formatter) group(plain string) string {
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign = "-"
		plain = plain[1:]
	}
	intPart, frac, hasFrac := strings.Cut(plain, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + plain
	}
	out := sign + f.printer.Sprintf("%d", n)
	if hasFrac {
		out += f.decimalSep + frac
	}
	if out == "-0" {
		return "0"
	}
	return out
}

// FormatNumber formats an integer with English thousand separators.
func FormatNumber(n int64) string {
	return defaultFormatter.Number(n)
}

// FormatFloat formats a float with fixed precision and English separators.
func FormatFloat(f float64, precision int) string {
	return defaultFormatter.Fixed(f, precision)
}

// FormatDisplay is Display on the English formatter.
func FormatDisplay(v float64) string {
	return defaultFormatter.Display(v)
}

// FormatFactor prints a metadata factor in its shortest exact form
// ("0.05", "1.11", "1"), without grouping.
func FormatFactor(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatLarge abbreviates values of a million and above ("~1.5 million",
// "~2.0 billion"); smaller values are rounded and grouped.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
