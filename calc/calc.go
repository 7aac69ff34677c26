// Package calc evaluates arithmetic and trigonometric expressions for the
// calculator tools.
//
// Expressions are parsed into a syntax tree by a recursive-descent parser
// and evaluated directly; nothing is ever executed as code. Input is also
// screened before parsing: characters outside [0-9a-zA-Z_+\-*/^().\s] and
// code-like fragments such as "import" or "eval(" are rejected outright.
package calc

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var prohibited = []*regexp.Regexp{
	regexp.MustCompile(`(?i)import\s+`),
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`__`),
	regexp.MustCompile(`(?i)open\s*\(`),
	regexp.MustCompile(`(?i)file\s*\(`),
	regexp.MustCompile(`(?i)input\s*\(`),
	regexp.MustCompile(`(?i)raw_input\s*\(`),
}

// Validate screens an expression before parsing.
func Validate(expr string) error {
	for _, re := range prohibited {
		if re.MatchString(expr) {
			return ErrProhibited
		}
	}
	for _, r := range expr {
		if unicode.IsSpace(r) {
			continue
		}
		if r > unicode.MaxASCII || !allowed(byte(r)) {
			return ErrInvalidCharacters
		}
	}
	return nil
}

func allowed(c byte) bool {
	return isIdentPart(c) || strings.IndexByte("+-*/^().", c) >= 0
}

// Evaluate validates, parses and evaluates an expression.
func Evaluate(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if err := Validate(expr); err != nil {
		return 0, err
	}
	n, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	v, err := n.Eval()
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// Format renders a result the way the calculator reports it: integral values
// without a fractional part, everything else rounded to 10 decimal places.
func Format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	rounded := math.Round(v*1e10) / 1e10
	if math.IsInf(rounded, 0) || math.IsNaN(rounded) {
		rounded = v
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Report evaluates an expression and renders the calculator tool's Markdown
// answer. Failures are rendered as error text rather than returned.
func Report(expression string) string {
	expression = strings.TrimSpace(expression)
	v, err := Evaluate(expression)
	if err != nil {
		return errorReport(expression, err)
	}
	result := Format(v)
	return fmt.Sprintf("**🧮 Calculator Result**\n\n"+
		"**Expression**: `%s`\n"+
		"**Result**: `%s`\n\n"+
		"**Calculation**: %s = %s", expression, result, expression, result)
}

func errorReport(expression string, err error) string {
	var syntaxErr *SyntaxError
	var domainErr *DomainError
	switch {
	case errors.Is(err, ErrProhibited):
		return "❌ **Error**: Invalid expression - contains prohibited operations"
	case errors.Is(err, ErrInvalidCharacters):
		return "❌ **Error**: Expression contains invalid characters"
	case errors.Is(err, ErrDivisionByZero):
		return fmt.Sprintf("❌ **Error**: Division by zero in expression: `%s`", expression)
	case errors.As(err, &domainErr):
		return fmt.Sprintf("❌ **Error**: Invalid value in expression `%s`: %s", expression, domainErr.Msg)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("❌ **Error**: Invalid syntax in expression: `%s` (%s)", expression, syntaxErr.Msg)
	default:
		return fmt.Sprintf("❌ **Error**: Could not evaluate expression `%s`: %v", expression, err)
	}
}

// AdvancedReport extends Report with properties of the result (square root,
// reciprocal, scientific notation) and an optional description of what the
// calculation represents.
func AdvancedReport(expression, description string) string {
	expression = strings.TrimSpace(expression)
	v, err := Evaluate(expression)
	if err != nil {
		return errorReport(expression, err)
	}

	var b strings.Builder
	b.WriteString(Report(expression))

	if description != "" {
		fmt.Fprintf(&b, "\n**Context**: %s\n", description)
	}

	var notes []string
	if v == math.Trunc(v) {
		notes = append(notes, "• Integer value: "+Format(v))
	}
	if v > 0 {
		notes = append(notes, fmt.Sprintf("• Square root: ≈ %.6f", math.Sqrt(v)))
	}
	if v != 0 {
		notes = append(notes, fmt.Sprintf("• Reciprocal: %.6f", 1/v))
	}
	if a := math.Abs(v); a >= 1000 || (a > 0 && a < 0.001) {
		notes = append(notes, fmt.Sprintf("• Scientific notation: %.3e", v))
	}
	if len(notes) > 0 {
		b.WriteString("\n**Additional Information**:\n")
		b.WriteString(strings.Join(notes, "\n"))
	}
	return b.String()
}
