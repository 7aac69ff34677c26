package calc

import (
	"fmt"
	"math"
)

// Node is a parsed expression.
type Node interface {
	Eval() (float64, error)
	String() string
}

// Number is a numeric literal or a named constant.
type Number struct {
	Value float64
	Text  string
}

func (n *Number) Eval() (float64, error) { return n.Value, nil }
func (n *Number) String() string         { return n.Text }

// Unary is a signed operand.
type Unary struct {
	Op      byte // '+' or '-'
	Operand Node
}

func (u *Unary) Eval() (float64, error) {
	v, err := u.Operand.Eval()
	if err != nil {
		return 0, err
	}
	if u.Op == '-' {
		return -v, nil
	}
	return v, nil
}

func (u *Unary) String() string { return fmt.Sprintf("(%c%s)", u.Op, u.Operand) }

// Binary applies an arithmetic operator to two operands.
type Binary struct {
	Op          byte // '+', '-', '*', '/' or '^'
	Left, Right Node
}

func (b *Binary) Eval() (float64, error) {
	l, err := b.Left.Eval()
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval()
	if err != nil {
		return 0, err
	}

	switch b.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	case '^':
		if l == 0 && r < 0 {
			return 0, ErrDivisionByZero
		}
		v := math.Pow(l, r)
		if math.IsNaN(v) {
			return 0, &DomainError{Func: "pow", Msg: "negative base with fractional exponent"}
		}
		return v, nil
	}
	return 0, fmt.Errorf("unknown operator %q", b.Op)
}

func (b *Binary) String() string { return fmt.Sprintf("(%s %c %s)", b.Left, b.Op, b.Right) }

// Call applies a named single-argument function.
type Call struct {
	Name string
	Arg  Node
	fn   func(float64) (float64, error)
}

func (c *Call) Eval() (float64, error) {
	v, err := c.Arg.Eval()
	if err != nil {
		return 0, err
	}
	return c.fn(v)
}

func (c *Call) String() string { return fmt.Sprintf("%s(%s)", c.Name, c.Arg) }

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var functions = map[string]func(float64) (float64, error){
	"sqrt": func(x float64) (float64, error) {
		if x < 0 {
			return 0, &DomainError{Func: "sqrt", Msg: "math domain error"}
		}
		return math.Sqrt(x), nil
	},
	"sin":   pure(math.Sin),
	"cos":   pure(math.Cos),
	"tan":   pure(math.Tan),
	"log":   logarithm("log", math.Log),
	"ln":    logarithm("ln", math.Log),
	"log10": logarithm("log10", math.Log10),
	"exp":   pure(math.Exp),
	"abs":   pure(math.Abs),
	"round": pure(math.RoundToEven), // half-to-even
	"ceil":  pure(math.Ceil),
	"floor": pure(math.Floor),
}

func pure(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return f(x), nil }
}

func logarithm(name string, f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{Func: name, Msg: "math domain error"}
		}
		return f(x), nil
	}
}
