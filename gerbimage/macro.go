// Aperture macro programs
package gerbimage

import (
	"strconv"
)

// maximum number of parameters an aperture can carry
const MaxApertureParameters = 102

type Opcode int

const (
	OpNop Opcode = iota
	OpPush
	OpParamPush
	OpParamPop
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPrimitive
)

func (op Opcode) String() string {
	switch op {
	case OpNop:
		return "NOP"
	case OpPush:
		return "PUSH"
	case OpParamPush:
		return "PPUSH"
	case OpParamPop:
		return "PPOP"
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpMul:
		return "MUL"
	case OpDiv:
		return "DIV"
	case OpPrimitive:
		return "PRIM"
	default:
	}
	return "Unknown opcode"
}

// AMPrimitiveType is the code of an aperture macro primitive
type AMPrimitiveType int

const (
	AMPrimitive_Comment    AMPrimitiveType = 0
	AMPrimitive_Circle     AMPrimitiveType = 1
	AMPrimitive_Line2      AMPrimitiveType = 2
	AMPrimitive_OutLine    AMPrimitiveType = 4
	AMPrimitive_Polygon    AMPrimitiveType = 5
	AMPrimitive_Moire      AMPrimitiveType = 6
	AMPrimitive_Thermal    AMPrimitiveType = 7
	AMPrimitive_VectLine   AMPrimitiveType = 20
	AMPrimitive_CenterLine AMPrimitiveType = 21
	AMPrimitive_LowerLeft  AMPrimitiveType = 22
)

func (amp AMPrimitiveType) String() string {
	var retVal string
	switch amp {
	case AMPrimitive_Comment:
		retVal = "comment"
	case AMPrimitive_Circle:
		retVal = "circle"
	case AMPrimitive_Line2, AMPrimitive_VectLine:
		retVal = "vector line"
	case AMPrimitive_CenterLine:
		retVal = "center line"
	case AMPrimitive_LowerLeft:
		retVal = "lower left line"
	case AMPrimitive_OutLine:
		retVal = "outline"
	case AMPrimitive_Polygon:
		retVal = "polygon"
	case AMPrimitive_Moire:
		retVal = "moire"
	case AMPrimitive_Thermal:
		retVal = "thermal"
	default:
		retVal = "unknown"
	}
	return retVal
}

// Instruction is one step of a macro program.
// Value is used by PUSH, Index (1-based) by PPUSH and PPOP, Code by PRIM.
// Arity, when positive, is the number of stack values the primitive consumes.
type Instruction struct {
	Op    Opcode
	Value float64
	Index int
	Code  AMPrimitiveType
	Arity int
}

func (in Instruction) String() string {
	switch in.Op {
	case OpPush:
		return in.Op.String() + " " + strconv.FormatFloat(in.Value, 'g', -1, 64)
	case OpParamPush, OpParamPop:
		return in.Op.String() + " $" + strconv.Itoa(in.Index)
	case OpPrimitive:
		s := in.Op.String() + " " + strconv.Itoa(int(in.Code)) + " (" + in.Code.String() + ")"
		if in.Arity > 0 {
			s += " arity " + strconv.Itoa(in.Arity)
		}
		return s
	default:
	}
	return in.Op.String()
}

func Nop() Instruction                  { return Instruction{Op: OpNop} }
func Push(v float64) Instruction        { return Instruction{Op: OpPush, Value: v} }
func ParamPush(index int) Instruction   { return Instruction{Op: OpParamPush, Index: index} }
func ParamPop(index int) Instruction    { return Instruction{Op: OpParamPop, Index: index} }
func Add() Instruction                  { return Instruction{Op: OpAdd} }
func Sub() Instruction                  { return Instruction{Op: OpSub} }
func Mul() Instruction                  { return Instruction{Op: OpMul} }
func Div() Instruction                  { return Instruction{Op: OpDiv} }
func Prim(code AMPrimitiveType) Instruction {
	return Instruction{Op: OpPrimitive, Code: code}
}

// PrimN is a primitive statement with an explicit number of values
func PrimN(code AMPrimitiveType, arity int) Instruction {
	return Instruction{Op: OpPrimitive, Code: code, Arity: arity}
}

// MacroProgram is the compiled body of an aperture macro
type MacroProgram struct {
	Name         string
	Instructions []Instruction
	// maximum stack depth declared by the compiler
	PushCount int
}

// NewMacroProgram computes PushCount as the number of push operations
func NewMacroProgram(name string, instr ...Instruction) *MacroProgram {
	retVal := &MacroProgram{Name: name, Instructions: instr}
	for i := range instr {
		if instr[i].Op == OpPush || instr[i].Op == OpParamPush {
			retVal.PushCount++
		}
	}
	return retVal
}

func (mp *MacroProgram) String() string {
	if mp == nil {
		return "<nil>"
	}
	retVal := "Aperture macro " + mp.Name + ", max stack depth " + strconv.Itoa(mp.PushCount) + "\n"
	for i := range mp.Instructions {
		retVal += "\t" + mp.Instructions[i].String() + "\n"
	}
	return retVal
}
