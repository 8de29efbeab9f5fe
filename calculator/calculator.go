// Aperture macro expressions and their translation into macro programs
package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SayCV/geda-gerbv/gerbimage"
)

var (
	ErrSyntax     = errors.New("syntax error")
	ErrParamIndex = errors.New("parameter index out of range")
)

// Calculator is a node of an expression tree
type Calculator interface {
	Calc(params []float64) float64
	Emit(dst []gerbimage.Instruction) []gerbimage.Instruction
}

type OpCode int

const (
	Nop OpCode = iota
	Add
	Sub
	Mul
	Div
	Neg
)

func (oc OpCode) String() string {
	switch oc {
	case Add:
		return "+"
	case Sub, Neg:
		return "-"
	case Mul:
		return "x"
	case Div:
		return "/"
	case Nop:
		return "<nop>"
	default:
	}
	return "bad OpCode"
}

// Operand is a constant, a macro variable $n or the result of an operation
type Operand struct {
	variable  int
	value     float64
	operation *Operation
}

type Operation struct {
	firstOperand  *Operand
	secondOperand *Operand
	operation     OpCode
}

// Calc evaluates the operand, variables beyond params read as zero
func (op *Operand) Calc(params []float64) float64 {
	if op.operation != nil {
		return op.operation.Calc(params)
	}
	if op.variable > 0 {
		if op.variable > len(params) {
			return 0
		}
		return params[op.variable-1]
	}
	return op.value
}

func (op *Operand) Emit(dst []gerbimage.Instruction) []gerbimage.Instruction {
	switch {
	case op.operation != nil:
		return op.operation.Emit(dst)
	case op.variable > 0:
		return append(dst, gerbimage.ParamPush(op.variable))
	default:
	}
	return append(dst, gerbimage.Push(op.value))
}

func (op *Operand) String() string {
	switch {
	case op.operation != nil:
		return op.operation.String()
	case op.variable > 0:
		return "$" + strconv.Itoa(op.variable)
	default:
	}
	return strconv.FormatFloat(op.value, 'g', -1, 64)
}

func (op *Operation) Calc(params []float64) float64 {
	a := op.firstOperand.Calc(params)
	if op.operation == Neg {
		return -a
	}
	b := op.secondOperand.Calc(params)
	switch op.operation {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	default:
	}
	return a
}

// Emit appends the postfix form of the operation, negation becomes 0 - a
func (op *Operation) Emit(dst []gerbimage.Instruction) []gerbimage.Instruction {
	if op.operation == Neg {
		dst = append(dst, gerbimage.Push(0))
		dst = op.firstOperand.Emit(dst)
		return append(dst, gerbimage.Sub())
	}
	dst = op.firstOperand.Emit(dst)
	dst = op.secondOperand.Emit(dst)
	switch op.operation {
	case Add:
		return append(dst, gerbimage.Add())
	case Sub:
		return append(dst, gerbimage.Sub())
	case Mul:
		return append(dst, gerbimage.Mul())
	case Div:
		return append(dst, gerbimage.Div())
	default:
	}
	return dst
}

func (op *Operation) String() string {
	if op.operation == Neg {
		return "(-" + op.firstOperand.String() + ")"
	}
	return "(" + op.firstOperand.String() + op.operation.String() + op.secondOperand.String() + ")"
}

type parser struct {
	src string
	pos int
}

// NewOperand parses an aperture macro arithmetic expression.
// Operators are + - x X / with the usual precedence, parentheses group.
func NewOperand(str string) (*Operand, error) {
	p := &parser{src: str}
	retVal, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		return nil, p.fail("unexpected " + strconv.Quote(p.src[p.pos:]))
	}
	return retVal, nil
}

func (p *parser) fail(what string) error {
	return fmt.Errorf("%q at %d: %s: %w", p.src, p.pos, what, ErrSyntax)
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos == len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expression() (*Operand, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		var oc OpCode
		switch p.peek() {
		case '+':
			oc = Add
		case '-':
			oc = Sub
		default:
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Operand{operation: &Operation{left, right, oc}}
	}
}

func (p *parser) term() (*Operand, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var oc OpCode
		switch p.peek() {
		case 'x', 'X':
			oc = Mul
		case '/':
			oc = Div
		default:
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Operand{operation: &Operation{left, right, oc}}
	}
}

func (p *parser) unary() (*Operand, error) {
	switch p.peek() {
	case '+':
		p.pos++
		return p.unary()
	case '-':
		p.pos++
		op, err := p.unary()
		if err != nil {
			return nil, err
		}
		// fold negative literals
		if op.operation == nil && op.variable == 0 {
			op.value = -op.value
			return op, nil
		}
		return &Operand{operation: &Operation{firstOperand: op, operation: Neg}}, nil
	default:
	}
	return p.primary()
}

func (p *parser) primary() (*Operand, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		retVal, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.fail("missing )")
		}
		p.pos++
		return retVal, nil
	case c == '$':
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return nil, p.fail("bad variable")
		}
		if n < 1 || n > gerbimage.MaxApertureParameters {
			return nil, fmt.Errorf("$%d: %w", n, ErrParamIndex)
		}
		return &Operand{variable: n}, nil
	case c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, p.fail("bad number")
		}
		return &Operand{value: v}, nil
	default:
	}
	if p.pos == len(p.src) {
		return nil, p.fail("unexpected end")
	}
	return nil, p.fail("unexpected " + strconv.QuoteRune(rune(p.src[p.pos])))
}

// CalcExpression evaluates a constant expression
func CalcExpression(str string) (float64, error) {
	op, err := NewOperand(strings.TrimSpace(str))
	if err != nil {
		return 0, err
	}
	return op.Calc(nil), nil
}
