// Package toolset declares the conversion agent's built-in tools and builds
// the registry the agent loop dispatches to.
package toolset

import (
	"context"
	"strconv"
	"strings"

	"github.com/spetersoncode/convagent/calc"
	"github.com/spetersoncode/convagent/currency"
	"github.com/spetersoncode/convagent/search"
	"github.com/spetersoncode/convagent/tool"
	"github.com/spetersoncode/convagent/units"
)

// Tool names.
const (
	ConvertDistance        = "convert_distance"
	ConvertWeight          = "convert_weight"
	ConvertTemperature     = "convert_temperature"
	ConvertCurrency        = "convert_currency"
	GetSupportedCurrencies = "get_supported_currencies"
	Calculator             = "calculator"
	AdvancedCalculator     = "advanced_calculator"
	WebSearch              = "web_search"
	SearchConversionInfo   = "search_conversion_info"
)

// DistanceArgs are the arguments of convert_distance.
type DistanceArgs struct {
	Value    float64 `json:"value" desc:"The numeric value to convert" required:"true"`
	FromUnit string  `json:"from_unit" desc:"The source unit" enum:"km,miles" required:"true"`
	ToUnit   string  `json:"to_unit" desc:"The target unit" enum:"km,miles" required:"true"`
}

// WeightArgs are the arguments of convert_weight.
type WeightArgs struct {
	Value    float64 `json:"value" desc:"The numeric value to convert" required:"true"`
	FromUnit string  `json:"from_unit" desc:"The source unit" enum:"kg,lbs" required:"true"`
	ToUnit   string  `json:"to_unit" desc:"The target unit" enum:"kg,lbs" required:"true"`
}

// TemperatureArgs are the arguments of convert_temperature.
type TemperatureArgs struct {
	Value    float64 `json:"value" desc:"The numeric value to convert" required:"true"`
	FromUnit string  `json:"from_unit" desc:"The source unit" enum:"celsius,fahrenheit" required:"true"`
	ToUnit   string  `json:"to_unit" desc:"The target unit" enum:"celsius,fahrenheit" required:"true"`
}

// CurrencyArgs are the arguments of convert_currency.
type CurrencyArgs struct {
	Amount       float64 `json:"amount" desc:"The amount of money to convert" required:"true"`
	FromCurrency string  `json:"from_currency" desc:"Source currency code (e.g., USD, EUR, GBP)" required:"true"`
	ToCurrency   string  `json:"to_currency" desc:"Target currency code (e.g., USD, EUR, GBP)" required:"true"`
}

// NoArgs is used by tools without parameters.
type NoArgs struct{}

// CalculatorArgs are the arguments of calculator.
type CalculatorArgs struct {
	Expression string `json:"expression" desc:"Mathematical expression to evaluate (supports +, -, *, /, ^, **, (), sqrt, sin, cos, tan, log, ln, exp, abs, round, ceil, floor, pi, e)" required:"true"`
}

// AdvancedCalculatorArgs are the arguments of advanced_calculator.
type AdvancedCalculatorArgs struct {
	Expression  string `json:"expression" desc:"Complex mathematical expression" required:"true"`
	Description string `json:"description" desc:"Optional description of what the calculation represents"`
}

// WebSearchArgs are the arguments of web_search.
type WebSearchArgs struct {
	Query      string `json:"query" desc:"The search query string" required:"true"`
	NumResults int    `json:"num_results" desc:"Number of search results to return (default: 3, max: 5)"`
}

// ConversionInfoArgs are the arguments of search_conversion_info.
type ConversionInfoArgs struct {
	Query string `json:"query" desc:"Conversion-related search query" required:"true"`
}

// Config selects the backends of the tools that need one.
type Config struct {
	// Rates backs the currency tools. Nil means no API key is configured;
	// the currency tools then answer with a configuration error.
	Rates currency.RateProvider

	// Search backs web_search. Nil disables both search tools.
	Search *search.Client

	// CurrencyOptions are passed to the currency converter.
	CurrencyOptions []currency.ConverterOption
}

// New builds the registry of built-in tools. Unit, currency and calculator
// tools are always present; the search tools only when cfg.Search is set.
func New(cfg Config) *tool.Registry {
	conv := currency.NewConverter(cfg.Rates, cfg.CurrencyOptions...)

	reg := tool.NewRegistry().Add(
		tool.Func(ConvertDistance, "Convert distance between kilometers and miles",
			func(ctx context.Context, args DistanceArgs) (string, error) {
				return convertUnits(units.Distance, args.Value, args.FromUnit, args.ToUnit)
			}),
		tool.Func(ConvertWeight, "Convert weight between kilograms and pounds",
			func(ctx context.Context, args WeightArgs) (string, error) {
				return convertUnits(units.Weight, args.Value, args.FromUnit, args.ToUnit)
			}),
		tool.Func(ConvertTemperature, "Convert temperature between Celsius and Fahrenheit",
			func(ctx context.Context, args TemperatureArgs) (string, error) {
				return convertUnits(units.Temperature, args.Value, args.FromUnit, args.ToUnit)
			}),
		tool.Func(ConvertCurrency, "Convert an amount of money between currencies using real-time exchange rates",
			func(ctx context.Context, args CurrencyArgs) (string, error) {
				return conv.ConvertReport(ctx, args.Amount, args.FromCurrency, args.ToCurrency), nil
			}),
		tool.Func(GetSupportedCurrencies, "List the currency codes supported for conversion",
			func(ctx context.Context, _ NoArgs) (string, error) {
				return conv.SupportedReport(ctx), nil
			}),
		tool.Func(Calculator, "Perform mathematical calculations and return the result",
			func(ctx context.Context, args CalculatorArgs) (string, error) {
				return calc.Report(args.Expression), nil
			}),
		tool.Func(AdvancedCalculator, "Perform advanced mathematical calculations with additional number properties",
			func(ctx context.Context, args AdvancedCalculatorArgs) (string, error) {
				return calc.AdvancedReport(args.Expression, args.Description), nil
			}),
	)

	if cfg.Search != nil {
		client := cfg.Search
		reg.Add(
			tool.Func(WebSearch, "Search the web for information and return results with references",
				func(ctx context.Context, args WebSearchArgs) (string, error) {
					return client.Report(ctx, args.Query, args.NumResults), nil
				}),
			tool.Func(SearchConversionInfo, "Search for specific conversion information, formulas, or unit definitions",
				func(ctx context.Context, args ConversionInfoArgs) (string, error) {
					return search.ConversionInfo(args.Query), nil
				}),
		)
	}
	return reg
}

type unitConverter func(value float64, from, to units.Unit) (float64, error)

func convertUnits(fn unitConverter, value float64, from, to string) (string, error) {
	out, err := fn(value, normalizeUnit(from), normalizeUnit(to))
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(out, 'f', -1, 64), nil
}

func normalizeUnit(s string) units.Unit {
	return units.Unit(strings.ToLower(strings.TrimSpace(s)))
}
