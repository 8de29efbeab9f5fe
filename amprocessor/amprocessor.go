//Aperture Macros support
package amprocessor

import (
	"errors"
	"fmt"
	"image"

	"github.com/golang/glog"

	"github.com/SayCV/geda-gerbv/canvas"
	. "github.com/SayCV/geda-gerbv/gerbimage"
)

var (
	ErrParamIndex = errors.New("aperture parameter index out of range")
	ErrArity      = errors.New("primitive statement has a wrong number of values")
	ErrNilProgram = errors.New("nil aperture macro program")
)

// Evaluate runs prog on a private copy of params and draws the primitives it produces.
// handled is false if at least one primitive code is unknown. Broken programs
// (stack underflow or overflow, bad parameter index, short statement) return an error.
func Evaluate(cv canvas.Canvas, prog *MacroProgram, params []float64, scale float64,
	origin image.Point, drawColor canvas.Color) (handled bool, err error) {

	if prog == nil {
		return false, ErrNilProgram
	}
	var work [MaxApertureParameters]float64
	copy(work[:], params)

	handled = true
	stack := NewStack(prog.PushCount)

	for i, in := range prog.Instructions {
		if err = step(cv, stack, &work, in, scale, origin, drawColor, &handled); err != nil {
			return handled, fmt.Errorf("%s: instruction %d (%s): %w", prog.Name, i, in.String(), err)
		}
	}
	return handled, nil
}

func step(cv canvas.Canvas, stack *Stack, work *[MaxApertureParameters]float64, in Instruction,
	scale float64, origin image.Point, drawColor canvas.Color, handled *bool) error {

	switch in.Op {
	case OpNop:
	case OpPush:
		return stack.Push(in.Value)
	case OpParamPush:
		if in.Index < 1 || in.Index > MaxApertureParameters {
			return ErrParamIndex
		}
		return stack.Push(work[in.Index-1])
	case OpParamPop:
		if in.Index < 1 || in.Index > MaxApertureParameters {
			return ErrParamIndex
		}
		v, err := stack.Pop()
		if err != nil {
			return err
		}
		work[in.Index-1] = v
	case OpAdd, OpSub, OpMul, OpDiv:
		a, err := stack.Pop()
		if err != nil {
			return err
		}
		b, err := stack.Pop()
		if err != nil {
			return err
		}
		return stack.Push(arith(in.Op, a, b))
	case OpPrimitive:
		defer stack.Reset()
		if in.Arity > 0 && in.Arity != stack.Depth() {
			return fmt.Errorf("%w: %d declared, %d on stack", ErrArity, in.Arity, stack.Depth())
		}
		f, ok := primitiveTable[in.Code]
		if !ok {
			glog.V(1).Infoln("unhandled aperture macro primitive", int(in.Code))
			*handled = false
			return nil
		}
		m := &modifiers{v: stack.Values(), short: ErrArity, stack: true}
		if glog.V(3) {
			glog.Infoln("primitive", in.Code.String(), m.v)
		}
		f(cv, m, scale, origin, drawColor)
		return m.err
	default:
		return fmt.Errorf("unknown opcode %d", int(in.Op))
	}
	return nil
}

// a is the top of the stack, b the value below it
func arith(op Opcode, a, b float64) float64 {
	switch op {
	case OpAdd:
		return b + a
	case OpSub:
		return b - a
	case OpMul:
		return b * a
	case OpDiv:
		return b / a
	default:
	}
	return 0
}
