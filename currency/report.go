package currency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxListed is how many currencies SupportedReport prints.
const MaxListed = 30

const (
	missingKeyText = "❌ **Error**: Currency conversion API key not found. \n\n" +
		"Please set the FREECURRENCY_API_KEY environment variable with your API key from https://freecurrencyapi.com/"
	invalidCodesText = "❌ **Error**: Invalid currency codes. Please use 3-letter currency codes (e.g., USD, EUR, GBP)"
	badAmountText    = "❌ **Error**: Amount must be greater than 0"
)

// fallbackCurrencies is used when the provider's listing has no data member.
var fallbackCurrencies = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"INR": "Indian Rupee",
	"KRW": "South Korean Won",
	"MXN": "Mexican Peso",
	"BRL": "Brazilian Real",
	"RUB": "Russian Ruble",
	"ZAR": "South African Rand",
	"SGD": "Singapore Dollar",
	"HKD": "Hong Kong Dollar",
	"NOK": "Norwegian Krone",
	"SEK": "Swedish Krona",
	"DKK": "Danish Krone",
	"PLN": "Polish Zloty",
}

// Converter produces the Markdown reports of the currency tools.
// A nil provider means no API key is configured.
type Converter struct {
	provider RateProvider
	now      func() time.Time
	printer  *message.Printer
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) ConverterOption {
	return func(c *Converter) {
		c.now = now
	}
}

// NewConverter creates a Converter backed by p.
func NewConverter(p RateProvider, opts ...ConverterOption) *Converter {
	c := &Converter{
		provider: p,
		now:      time.Now,
		printer:  message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeCode trims and uppercases a currency code and reports whether it
// is exactly three ASCII letters.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return code, false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return code, false
		}
	}
	return code, true
}

// ConvertReport converts amount from one currency to another. Every failure
// is reported in the returned text.
func (c *Converter) ConvertReport(ctx context.Context, amount float64, from, to string) string {
	if c.provider == nil {
		return missingKeyText
	}

	from, okFrom := NormalizeCode(from)
	to, okTo := NormalizeCode(to)
	if !okFrom || !okTo {
		return invalidCodesText
	}
	if amount <= 0 {
		return badAmountText
	}

	rate, err := c.provider.LatestRate(ctx, from, to)
	if err != nil {
		return c.rateError(err, from, to)
	}

	converted := amount * rate
	amountText := c.printer.Sprintf("%.2f", amount)
	convertedText := c.printer.Sprintf("%.2f", converted)

	var b strings.Builder
	b.WriteString("**💱 Currency Conversion Result**\n\n")
	fmt.Fprintf(&b, "**Original Amount**: %s %s\n", amountText, from)
	fmt.Fprintf(&b, "**Converted Amount**: %s %s\n", convertedText, to)
	fmt.Fprintf(&b, "**Exchange Rate**: 1 %s = %.6f %s\n\n", from, rate, to)
	fmt.Fprintf(&b, "**Calculation**: %s × %.6f = %s\n\n", amountText, rate, convertedText)
	fmt.Fprintf(&b, "🕐 **Rate Updated**: %s (Real-time)\n", c.now().Format(time.DateTime))
	b.WriteString("🔗 **Source**: [FreeCurrencyAPI](https://freecurrencyapi.com/)\n\n")
	b.WriteString("*Note: Exchange rates are updated in real-time and may fluctuate throughout the day.*")
	return b.String()
}

func (c *Converter) rateError(err error, from, to string) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrRateNotFound):
		return fmt.Sprintf("❌ **Error**: Exchange rate not found for %s to %s", from, to)
	case errors.As(err, &apiErr) && apiErr.StatusCode == 0:
		return "❌ **Error**: " + apiErr.Message
	default:
		return "❌ **Error**: Unable to fetch exchange rates due to network error: " + err.Error()
	}
}

// SupportedReport lists the currencies the provider supports.
func (c *Converter) SupportedReport(ctx context.Context) string {
	if c.provider == nil {
		return missingKeyText
	}

	listing, err := c.provider.ListCurrencies(ctx)
	switch {
	case errors.Is(err, ErrNoListing):
		return fallbackReport()
	case err != nil:
		return "❌ **Error**: Unable to fetch supported currencies due to network error: " + err.Error()
	}

	codes := make([]string, 0, len(listing))
	for code := range listing {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	shown := codes
	if len(shown) > MaxListed {
		shown = shown[:MaxListed]
	}

	var b strings.Builder
	b.WriteString("**💱 Supported Currencies**\n\n")
	for _, code := range shown {
		name := listing[code].Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "• **%s**: %s\n", code, name)
	}
	if len(codes) > MaxListed {
		fmt.Fprintf(&b, "\n*(Showing %d of %d currencies)*\n", MaxListed, len(codes))
	}
	b.WriteString("\n**Usage Examples**:\n")
	b.WriteString("• Convert 100 USD to EUR\n")
	b.WriteString("• Convert 50 GBP to JPY\n")
	b.WriteString("• Convert 1000 CAD to AUD")
	return b.String()
}

func fallbackReport() string {
	codes := make([]string, 0, len(fallbackCurrencies))
	for code := range fallbackCurrencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString("**💱 Common Supported Currencies**\n\n")
	for _, code := range codes {
		fmt.Fprintf(&b, "• **%s**: %s\n", code, fallbackCurrencies[code])
	}
	b.WriteString("\n*Note: This is a partial list. The API supports many more currencies.*")
	return b.String()
}
