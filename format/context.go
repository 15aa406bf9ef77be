// Package format turns MPX field text into numbers, dates and times and back,
// using the separators and orderings a file declares in its settings records.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSyntax is wrapped by every parse failure in this package.
var ErrSyntax = errors.New("malformed value")

// DateOrder is the order of day, month and year in a date field.
type DateOrder int

const (
	MDY DateOrder = iota
	DMY
	YMD
)

// TimeFormat selects 12 or 24 hour clock times.
type TimeFormat int

const (
	TwelveHour TimeFormat = iota
	TwentyFourHour
)

// SymbolPosition is where the currency symbol goes relative to the amount.
type SymbolPosition int

const (
	SymbolAfter SymbolPosition = iota
	SymbolBefore
	SymbolAfterWithSpace
	SymbolBeforeWithSpace
)

// Settings are the locale and separator choices a Context is built from.
type Settings struct {
	Locale             string
	DecimalSeparator   rune
	ThousandsSeparator rune
	DateSeparator      rune
	TimeSeparator      rune
	DateOrder          DateOrder
	TimeFormat         TimeFormat
	AMText             string
	PMText             string
	CurrencySymbol     string
	SymbolPosition     SymbolPosition
	CurrencyDigits     int
	// Location is used for parsed dates. Defaults to time.Local.
	Location *time.Location
}

// DefaultSettings mirrors the defaults of an English MPX file.
func DefaultSettings() Settings {
	return Settings{
		Locale:             "en",
		DecimalSeparator:   '.',
		ThousandsSeparator: ',',
		DateSeparator:      '/',
		TimeSeparator:      ':',
		DateOrder:          DMY,
		TimeFormat:         TwentyFourHour,
		AMText:             "am",
		PMText:             "pm",
		CurrencySymbol:     "$",
		SymbolPosition:     SymbolBefore,
		CurrencyDigits:     2,
		Location:           time.Local,
	}
}

// Context is an immutable set of parsers and formatters. Build a new one
// with NewContext whenever the settings change.
type Context struct {
	settings     Settings
	locale       *Locale
	dateLayout   string
	parseLayouts []string
}

// NewContext validates the settings and prepares the layouts derived from them.
func NewContext(s Settings) (*Context, error) {
	locale, ok := LookupLocale(s.Locale)
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", s.Locale)
	}
	if s.DecimalSeparator == 0 {
		return nil, errors.New("decimal separator must be set")
	}
	if s.DecimalSeparator == s.ThousandsSeparator {
		return nil, fmt.Errorf("decimal and thousands separators are both %q", s.DecimalSeparator)
	}
	if s.DateSeparator == 0 || s.TimeSeparator == 0 {
		return nil, errors.New("date and time separators must be set")
	}
	if s.CurrencyDigits < 0 {
		return nil, fmt.Errorf("currency digits must not be negative, got %d", s.CurrencyDigits)
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.AMText == "" {
		s.AMText = "am"
	}
	if s.PMText == "" {
		s.PMText = "pm"
	}

	c := &Context{settings: s, locale: locale}
	c.dateLayout, c.parseLayouts = dateLayouts(s.DateOrder, s.DateSeparator)
	return c, nil
}

// Default returns a Context built from DefaultSettings.
func Default() *Context {
	c, err := NewContext(DefaultSettings())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Context) Settings() Settings { return c.settings }
func (c *Context) Locale() *Locale     { return c.locale }

// ParseDecimal parses a number written with the context's separators.
func (c *Context) ParseDecimal(s string) (float64, error) {
	d, err := c.parseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func (c *Context) parseDecimal(s string) (decimal.Decimal, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: empty number", ErrSyntax)
	}
	if c.settings.ThousandsSeparator != 0 {
		text = strings.ReplaceAll(text, string(c.settings.ThousandsSeparator), "")
	}
	if c.settings.DecimalSeparator != '.' {
		if strings.ContainsRune(text, '.') {
			return decimal.Zero, fmt.Errorf("%w: number %q", ErrSyntax, s)
		}
		text = strings.ReplaceAll(text, string(c.settings.DecimalSeparator), ".")
	}
	if strings.ContainsAny(text, "eE") {
		return decimal.Zero, fmt.Errorf("%w: number %q", ErrSyntax, s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: number %q", ErrSyntax, s)
	}
	return d, nil
}

// formatDecimal rounds v to at most maxDigits decimals, keeping at least
// minDigits, and writes it with the context's decimal separator.
func (c *Context) formatDecimal(v float64, minDigits, maxDigits int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(v).Round(maxDigits)
	digits := minDigits
	for digits < maxDigits && !d.Equal(d.Round(digits)) {
		digits++
	}
	return c.localize(d.StringFixed(digits))
}

func (c *Context) localize(s string) string {
	if c.settings.DecimalSeparator != '.' {
		s = strings.Replace(s, ".", string(c.settings.DecimalSeparator), 1)
	}
	return s
}

func (c *Context) ParseDurationAmount(s string) (float64, error) {
	return c.ParseDecimal(s)
}

// FormatDurationAmount writes the shortest decimal that parses back to v, so
// durations survive a format and parse unchanged.
func (c *Context) FormatDurationAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return c.localize(decimal.NewFromFloat(v).String())
}

// FormatFloat uses the "0.00#" pattern for general float fields.
func (c *Context) FormatFloat(v float64) string {
	return c.formatDecimal(v, 2, 3)
}

// ParsePercentage accepts an optional trailing percent sign.
func (c *Context) ParsePercentage(s string) (float64, error) {
	return c.ParseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// FormatPercentage uses the "##0.##" pattern.
func (c *Context) FormatPercentage(v float64) string {
	return c.formatDecimal(v, 0, 2)
}

// ParseCurrency accepts amounts with or without the currency symbol and
// with either a leading minus or surrounding parentheses for negatives.
func (c *Context) ParseCurrency(s string) (float64, error) {
	text := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}
	if sym := c.settings.CurrencySymbol; sym != "" {
		text = strings.TrimSpace(strings.ReplaceAll(text, sym, ""))
	}
	d, err := c.parseDecimal(text)
	if err != nil {
		return 0, fmt.Errorf("%w: currency %q", ErrSyntax, s)
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64(), nil
}

// FormatCurrency writes v with the configured digits, thousands grouping
// and symbol placement.
func (c *Context) FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(int32(c.settings.CurrencyDigits))
	negative := d.IsNegative()
	s := d.Abs().StringFixed(int32(c.settings.CurrencyDigits))

	whole, frac, _ := strings.Cut(s, ".")
	whole = group(whole, c.settings.ThousandsSeparator)
	if frac != "" {
		whole += string(c.settings.DecimalSeparator) + frac
	}

	sym := c.settings.CurrencySymbol
	switch c.settings.SymbolPosition {
	case SymbolAfter:
		whole = whole + sym
	case SymbolBefore:
		whole = sym + whole
	case SymbolAfterWithSpace:
		whole = whole + " " + sym
	case SymbolBeforeWithSpace:
		whole = sym + " " + whole
	}
	if negative {
		return "-" + whole
	}
	return whole
}

func group(digits string, sep rune) string {
	if sep == 0 || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
