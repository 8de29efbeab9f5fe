package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/golang/glog"
)

var ErrBadStatement = errors.New("bad aperture macro statement")

var (
	_ Calculator = (*Operand)(nil)
	_ Calculator = (*Operation)(nil)
)

// Compile translates the body of an aperture macro definition into a program.
// Statements are separated by '*': "$n=expression" assigns a variable,
// "code,expression,..." draws a primitive, statements starting with 0 are comments.
func Compile(name string, body string) (*gerbimage.MacroProgram, error) {
	body = strings.NewReplacer("\r", "", "\n", "").Replace(body)
	instr := make([]gerbimage.Instruction, 0)
	for i, stmt := range strings.Split(body, "*") {
		stmt = strings.TrimSpace(stmt)
		if len(stmt) == 0 || isComment(stmt) {
			continue
		}
		var err error
		if strings.HasPrefix(stmt, "$") {
			instr, err = assignment(instr, stmt)
		} else {
			instr, err = primitive(instr, stmt)
		}
		if err != nil {
			return nil, fmt.Errorf("macro %s, statement %d: %w", name, i, err)
		}
	}
	retVal := gerbimage.NewMacroProgram(name, instr...)
	if glog.V(2) {
		glog.Infoln(retVal.String())
	}
	return retVal, nil
}

func isComment(stmt string) bool {
	return stmt[0] == '0' && (len(stmt) == 1 || stmt[1] == ' ' || stmt[1] == ',')
}

func assignment(instr []gerbimage.Instruction, stmt string) ([]gerbimage.Instruction, error) {
	eq := strings.IndexByte(stmt, '=')
	if eq < 0 {
		return nil, fmt.Errorf("%q: missing '=': %w", stmt, ErrBadStatement)
	}
	n, err := strconv.Atoi(strings.TrimSpace(stmt[1:eq]))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", stmt, ErrBadStatement)
	}
	if n < 1 || n > gerbimage.MaxApertureParameters {
		return nil, fmt.Errorf("$%d: %w", n, ErrParamIndex)
	}
	op, err := NewOperand(stmt[eq+1:])
	if err != nil {
		return nil, err
	}
	instr = op.Emit(instr)
	return append(instr, gerbimage.ParamPop(n)), nil
}

func primitive(instr []gerbimage.Instruction, stmt string) ([]gerbimage.Instruction, error) {
	fields := strings.Split(stmt, ",")
	code, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("%q: bad primitive code: %w", stmt, ErrBadStatement)
	}
	for _, f := range fields[1:] {
		op, err := NewOperand(f)
		if err != nil {
			return nil, err
		}
		instr = op.Emit(instr)
	}
	return append(instr, gerbimage.PrimN(gerbimage.AMPrimitiveType(code), len(fields)-1)), nil
}

// CompileDefinition compiles a complete "%AMname*body*%" definition
func CompileDefinition(def string) (*gerbimage.MacroProgram, error) {
	def = strings.TrimSpace(def)
	def = strings.TrimSuffix(strings.TrimPrefix(def, "%"), "%")
	if !strings.HasPrefix(def, "AM") {
		return nil, fmt.Errorf("%q: not an aperture macro: %w", def, ErrBadStatement)
	}
	star := strings.IndexByte(def, '*')
	if star < 3 {
		return nil, fmt.Errorf("%q: missing macro name: %w", def, ErrBadStatement)
	}
	return Compile(strings.TrimSpace(def[2:star]), def[star+1:])
}
