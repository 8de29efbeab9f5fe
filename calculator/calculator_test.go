package calculator

import (
	"errors"
	"image"
	"math"
	"strconv"
	"testing"

	"github.com/SayCV/geda-gerbv/amprocessor"
	"github.com/SayCV/geda-gerbv/canvas"
	"github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/plotter"
)

func TestOperation_Calc(t *testing.T) {
	val1 := 222.222
	val2 := 333.333
	op1 := Operand{value: val1}
	op2 := Operand{value: val2}
	oper1 := Operation{&op1, &op2, Add}
	op3 := Operand{operation: &oper1}

	oper2 := Operation{firstOperand: &op3, operation: Neg}

	if op3.Calc(nil) != (val1 + val2) {
		t.Fatal("op3.Calc() error!")
	}

	if oper2.Calc(nil) != -(val1 + val2) {
		t.Fatal("oper2.Calc() error!")
	}
}

type testCase struct {
	src string
	ans float64
}

var src = []testCase{
	{"-2x3", -2 * 3},
	{"-2X-3", -2 * -3},
	{"2x3", 2 * 3},
	{"(((-2)))", -2},
	{"2--3", 2 - -3},
	{"2/-3.0", 2 / -3.0},
	{"-2--3", -2 - (-3)},
	{"-2+1-1", -2 + 1 - 1},
	{"2+1-1", 2 + 1 - 1},
	{"-2+1--3", -2 + 1 - (-3)},
	{"-6x9/8", -6 * 9 / 8.0},
	{"-6x9/8x8/-4X787.33", -6 * 9 / 8.0 * 8 / -4 * 787.33},
	{"-6x9/1x-6x9/2/-6x9/3", -6 * 9 / 1 * -6 * 9 / 2 / -6 * 9 / 3},
	{"-1", -1},
	{" 1 + 2 x 3 ", 7},
	{"(1+2)x3", 9},
	{".5x4", 2},
	{"(-2x(333+444x4343)/555)-(666-(-777x(888x(-999--1000))))+(11-12)", -697593},
}

func TestCalcExpression(t *testing.T) {
	for _, s := range src {
		got, err := CalcExpression(s.src)
		if err != nil {
			t.Fatal(s.src + ": " + err.Error())
		}
		if math.Abs(got-s.ans) > 1e-9*math.Max(1, math.Abs(s.ans)) {
			t.Fatal(s.src + " calculation error! got " +
				strconv.FormatFloat(got, 'f', 10, 64) +
				" expected " + strconv.FormatFloat(s.ans, 'f', 10, 64))
		}
		t.Log(s.src + " = " + strconv.FormatFloat(s.ans, 'f', 5, 64))
	}
}

func TestCalcExpression_Errors(t *testing.T) {
	for _, s := range []string{"", "2+", "(1+2", "1+2)", "2 3", "abc", "$", "1..2"} {
		if _, err := CalcExpression(s); !errors.Is(err, ErrSyntax) {
			t.Error(strconv.Quote(s) + " must be a syntax error")
		}
	}
	if _, err := CalcExpression("$0"); !errors.Is(err, ErrParamIndex) {
		t.Error("$0 must be rejected")
	}
	if _, err := CalcExpression("$103"); !errors.Is(err, ErrParamIndex) {
		t.Error("$103 must be rejected")
	}
}

func TestOperand_Variables(t *testing.T) {
	op, err := NewOperand("$1x2+-$2")
	if err != nil {
		t.Fatal(err)
	}
	if op.Calc([]float64{3, 4}) != 2 {
		t.Fatal("bad value " + op.String())
	}
	// missing variables read as zero
	if op.Calc([]float64{3}) != 6 {
		t.Fatal("missing variable")
	}
}

func TestOperand_Emit(t *testing.T) {
	op, err := NewOperand("$1x2+-$2")
	if err != nil {
		t.Fatal(err)
	}
	want := []gerbimage.Instruction{
		gerbimage.ParamPush(1), gerbimage.Push(2), gerbimage.Mul(),
		gerbimage.Push(0), gerbimage.ParamPush(2), gerbimage.Sub(),
		gerbimage.Add(),
	}
	got := op.Emit(nil)
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCompile(t *testing.T) {
	prog, err := Compile("DONUT", "0 ring with a hole*\n$3=$1x0.5*\n1,1,$1,0,0*\r\n1,0,$3,0,0*")
	if err != nil {
		t.Fatal(err)
	}
	want := []gerbimage.Instruction{
		gerbimage.ParamPush(1), gerbimage.Push(0.5), gerbimage.Mul(), gerbimage.ParamPop(3),
		gerbimage.Push(1), gerbimage.ParamPush(1), gerbimage.Push(0), gerbimage.Push(0),
		gerbimage.PrimN(gerbimage.AMPrimitive_Circle, 4),
		gerbimage.Push(0), gerbimage.ParamPush(3), gerbimage.Push(0), gerbimage.Push(0),
		gerbimage.PrimN(gerbimage.AMPrimitive_Circle, 4),
	}
	if len(prog.Instructions) != len(want) {
		t.Fatalf("got\n%v", prog)
	}
	for i := range want {
		if prog.Instructions[i] != want[i] {
			t.Fatalf("instruction %d: got %v, want %v", i, prog.Instructions[i], want[i])
		}
	}
	if prog.PushCount != 10 {
		t.Fatal("bad push count " + strconv.Itoa(prog.PushCount))
	}

	p := plotter.NewPlotter()
	handled, err := amprocessor.Evaluate(p, prog, []float64{10}, 10, image.Pt(0, 0), canvas.Transparent)
	if err != nil || !handled {
		t.Fatal("evaluation failed")
	}
	if len(p.Ops) != 2 || p.Ops[0].W != 100 || p.Ops[1].W != 50 {
		t.Fatalf("bad drawing %v", p.Ops)
	}
	if p.Ops[0].Style.Color != canvas.Transparent || p.Ops[1].Style.Color != canvas.Opaque {
		t.Fatal("exposure off must invert the color")
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		body string
		err  error
	}{
		{"$1 3", ErrBadStatement},
		{"$x=3", ErrBadStatement},
		{"$200=3", ErrParamIndex},
		{"circle,1,2", ErrBadStatement},
		{"1,1,2+", ErrSyntax},
	}
	for _, tc := range tests {
		if _, err := Compile("BAD", tc.body); !errors.Is(err, tc.err) {
			t.Errorf("%q: got %v", tc.body, err)
		}
	}
}

func TestCompile_UnknownPrimitive(t *testing.T) {
	prog, err := Compile("FUTURE", "99,1,2")
	if err != nil {
		t.Fatal(err)
	}
	handled, err := amprocessor.Evaluate(plotter.NewPlotter(), prog, nil, 1, image.Pt(0, 0), canvas.Opaque)
	if err != nil || handled {
		t.Fatal("unknown primitives are reported as unhandled")
	}
}

func TestCompileDefinition(t *testing.T) {
	prog, err := CompileDefinition("%AMTHERM*7,0,0,$1,$2,$3,45*%")
	if err != nil {
		t.Fatal(err)
	}
	if prog.Name != "THERM" || len(prog.Instructions) != 7 {
		t.Fatalf("got\n%v", prog)
	}
	if last := prog.Instructions[6]; last.Code != gerbimage.AMPrimitive_Thermal || last.Arity != 6 {
		t.Fatal("bad primitive " + last.String())
	}
	for _, def := range []string{"%ADD10C,1*%", "%AM*1,1,1,0,0*%"} {
		if _, err := CompileDefinition(def); !errors.Is(err, ErrBadStatement) {
			t.Errorf("%q must be rejected", def)
		}
	}
}
