package amprocessor

import (
	"errors"
	"image"
	"math"
	"strconv"
	"testing"

	"github.com/SayCV/geda-gerbv/canvas"
	. "github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/plotter"
)

var origin = image.Pt(100, 100)

func run(t *testing.T, params []float64, scale float64, instr ...Instruction) (*plotter.PlotterParams, bool, error) {
	t.Helper()
	p := plotter.NewPlotter()
	handled, err := Evaluate(p, NewMacroProgram("T", instr...), params, scale, origin, canvas.Transparent)
	return p, handled, err
}

// circle whose diameter is taken from $1
func circleFromParam1() []Instruction {
	return []Instruction{Push(1), ParamPush(1), Push(0), Push(0), Prim(AMPrimitive_Circle)}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	type testCase struct {
		op  Instruction
		a   float64
		b   float64
		ans int
	}
	testCases := []testCase{
		{Sub(), 10, 3, 7},
		{Add(), 10, 3, 13},
		{Mul(), 10, 3, 30},
		{Div(), 21, 3, 7},
	}
	for i, tc := range testCases {
		prog := append([]Instruction{Push(tc.a), Push(tc.b), tc.op, ParamPop(1)}, circleFromParam1()...)
		p, handled, err := run(t, nil, 1, prog...)
		if err != nil || !handled {
			t.Fatal("case " + strconv.Itoa(i) + " failed")
		}
		if len(p.Ops) != 1 || p.Ops[0].W != tc.ans {
			t.Fatal("case " + strconv.Itoa(i) + ": wrong result")
		}
	}
}

func TestEvaluate_DivByZero(t *testing.T) {
	prog := append([]Instruction{Push(1), Push(0), Div(), ParamPop(1)}, circleFromParam1()...)
	p, handled, err := run(t, nil, 1, prog...)
	if err != nil || !handled {
		t.Fatal("division by zero must not fail")
	}
	if len(p.Ops) != 0 {
		t.Fatal("infinite circle must be skipped")
	}
}

func TestEvaluate_ParamsUnchanged(t *testing.T) {
	params := []float64{5, 6}
	prog := append([]Instruction{Push(9), ParamPop(1)}, circleFromParam1()...)
	p, _, err := run(t, params, 1, prog...)
	if err != nil {
		t.Fatal(err)
	}
	if params[0] != 5 || params[1] != 6 {
		t.Fatal("caller parameters were modified")
	}
	if p.Ops[0].W != 9 {
		t.Fatal("work copy was not updated")
	}
	// second pass sees the unchanged parameters
	p, _, _ = run(t, params, 1, circleFromParam1()...)
	if p.Ops[0].W != 5 {
		t.Fatal("parameters leaked between passes")
	}
}

func TestEvaluate_ContractViolations(t *testing.T) {
	type testCase struct {
		prog []Instruction
		err  error
	}
	testCases := []testCase{
		{[]Instruction{Add()}, ErrStackUnderflow},
		{[]Instruction{Push(1), Sub()}, ErrStackUnderflow},
		{[]Instruction{ParamPop(1)}, ErrStackUnderflow},
		{[]Instruction{ParamPush(0)}, ErrParamIndex},
		{[]Instruction{ParamPush(MaxApertureParameters + 1)}, ErrParamIndex},
		{[]Instruction{Push(1), ParamPop(-1)}, ErrParamIndex},
		{[]Instruction{Push(1), Push(5), Prim(AMPrimitive_Circle)}, ErrArity},
		{[]Instruction{Push(1), Push(5), Push(0), Push(0), PrimN(AMPrimitive_Circle, 5)}, ErrArity},
	}
	for i, tc := range testCases {
		_, _, err := run(t, nil, 1, tc.prog...)
		if !errors.Is(err, tc.err) {
			t.Fatal("case " + strconv.Itoa(i) + ": expected " + tc.err.Error())
		}
	}

	prog := &MacroProgram{Name: "small"}
	for i := 0; i <= StackMargin; i++ {
		prog.Instructions = append(prog.Instructions, Push(1))
	}
	_, err := Evaluate(plotter.NewPlotter(), prog, nil, 1, origin, canvas.Transparent)
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatal("expected overflow")
	}
	if _, err = Evaluate(plotter.NewPlotter(), nil, nil, 1, origin, canvas.Transparent); err != ErrNilProgram {
		t.Fatal("expected nil program error")
	}
}

func TestEvaluate_UnknownPrimitive(t *testing.T) {
	prog := append([]Instruction{Push(1), Push(2), Prim(3)}, circleFromParam1()...)
	p, handled, err := run(t, []float64{4}, 1, prog...)
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Fatal("unknown primitive must clear the handled flag")
	}
	if len(p.Ops) != 1 || p.Ops[0].W != 4 {
		t.Fatal("execution must continue after an unknown primitive")
	}
}

func TestEvaluate_StackResetAfterPrimitive(t *testing.T) {
	prog := []Instruction{
		Push(1), Push(2), Push(0), Push(0), PrimN(AMPrimitive_Circle, 4),
		Push(1), Push(3), Push(0), Push(0), PrimN(AMPrimitive_Circle, 4),
	}
	p, _, err := run(t, nil, 10, prog...)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 2 || p.Ops[1].W != 30 {
		t.Fatal("second statement must start from an empty stack")
	}
}

func TestEvaluate_Exposure(t *testing.T) {
	p, _, err := run(t, nil, 1, Push(0), Push(2), Push(0), Push(0), Prim(AMPrimitive_Circle))
	if err != nil {
		t.Fatal(err)
	}
	if p.Ops[0].Style.Color != canvas.Opaque {
		t.Fatal("exposure off must erase")
	}
}

func TestPrimitive_Circle(t *testing.T) {
	p, _, _ := run(t, nil, 100, Push(1), Push(2), Push(0.5), Push(0.25), Prim(AMPrimitive_Circle))
	op := p.Ops[0]
	if op.Kind != plotter.OpCircle || op.W != 200 || op.Points[0] != image.Pt(150, 75) || !op.Filled {
		t.Fatal("bad circle " + op.Points[0].String())
	}
}

func TestPrimitive_PolygonDepth(t *testing.T) {
	// center x and y present: depth 6
	p, _, err := run(t, nil, 1, Push(1), Push(4), Push(0), Push(0), Push(10), Push(0), Prim(AMPrimitive_Polygon))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 1 {
		t.Fatal("polygon must be drawn")
	}
	want := []image.Point{{105, 100}, {100, 105}, {95, 100}, {100, 95}}
	for i := range want {
		if p.Ops[0].Points[i] != want[i] {
			t.Fatal("bad vertex " + strconv.Itoa(i) + " " + p.Ops[0].Points[i].String())
		}
	}

	// one extra value
	p, _, err = run(t, nil, 1, Push(1), Push(4), Push(0), Push(0), Push(10), Push(0), Push(7), Prim(AMPrimitive_Polygon))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 0 {
		t.Fatal("polygon with depth 7 must draw nothing")
	}

	// fast path has no depth requirement
	p = plotter.NewPlotter()
	params := make([]float64, MaxApertureParameters)
	copy(params, []float64{1, 6, 0, 0, 10, 0})
	if _, err = DrawPrimitive(p, AMPrimitive_Polygon, params, 1, origin, canvas.Transparent); err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 1 || len(p.Ops[0].Points) != 6 {
		t.Fatal("fast path polygon must have 6 vertices")
	}
}

func TestPrimitive_Outline(t *testing.T) {
	closed := []Instruction{Push(1), Push(3), Push(0), Push(0), Push(1), Push(0), Push(1), Push(1), Push(0), Push(0), Push(0),
		Prim(AMPrimitive_OutLine)}
	p, _, err := run(t, nil, 10, closed...)
	if err != nil {
		t.Fatal(err)
	}
	op := p.Ops[0]
	if !op.Filled || len(op.Points) != 3 {
		t.Fatal("closed outline must be filled with 3 vertices")
	}
	if op.Points[2] != image.Pt(110, 90) {
		t.Fatal("y must be negated " + op.Points[2].String())
	}

	open := []Instruction{Push(1), Push(3), Push(0), Push(0), Push(1), Push(0), Push(1), Push(1), Push(0), Push(1), Push(0),
		Prim(AMPrimitive_OutLine)}
	p, _, _ = run(t, nil, 10, open...)
	op = p.Ops[0]
	if op.Filled || op.Style.Width != 1 {
		t.Fatal("open outline must be stroked one pixel wide")
	}

	// vertex count too large for the statement
	p, _, err = run(t, nil, 10, Push(1), Push(30), Push(0), Push(0), Push(0), Prim(AMPrimitive_OutLine))
	if err != nil || len(p.Ops) != 0 {
		t.Fatal("unusable vertex count must skip the shape")
	}
}

func TestPrimitive_OutlineRotation(t *testing.T) {
	square := func(rot float64) []Instruction {
		return []Instruction{Push(1), Push(2), Push(1), Push(0), Push(0), Push(1), Push(1), Push(0), Push(rot),
			Prim(AMPrimitive_OutLine)}
	}
	p, _, _ := run(t, nil, 10, square(0.05)...)
	if p.Ops[0].Points[0] != image.Pt(110, 100) {
		t.Fatal("rotation below threshold must be ignored")
	}
	p, _, _ = run(t, nil, 10, square(90)...)
	if p.Ops[0].Points[0] != image.Pt(100, 90) {
		t.Fatal("bad rotated vertex " + p.Ops[0].Points[0].String())
	}
}

func TestPrimitive_Thermal(t *testing.T) {
	p, _, err := run(t, nil, 10, Push(0), Push(0), Push(8), Push(6), Push(1), Push(0), Prim(AMPrimitive_Thermal))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 3 {
		t.Fatal("thermal is a ring and two lines")
	}
	ring := p.Ops[0]
	if ring.Filled || ring.W != 70 || ring.Style.Width != 10 || ring.Style.Color != canvas.Transparent {
		t.Fatal("bad thermal ring")
	}
	l := p.Ops[1]
	if l.Style.Color != canvas.Opaque || l.Style.Width != 10 {
		t.Fatal("cross must use the inverted color")
	}
	if l.Points[0] != image.Pt(142, 100) || l.Points[1] != image.Pt(58, 100) {
		t.Fatal("bad cross " + l.Points[0].String() + l.Points[1].String())
	}
}

func TestPrimitive_Moire(t *testing.T) {
	p, _, err := run(t, nil, 10,
		Push(0), Push(0), Push(10), Push(1), Push(1), Push(3), Push(0.5), Push(12), Push(0), Prim(AMPrimitive_Moire))
	if err != nil {
		t.Fatal(err)
	}
	if p.Count(plotter.OpCircle) != 3 || p.Count(plotter.OpLine) != 2 {
		t.Fatal("moire is 3 rings and a cross")
	}
	if p.Ops[0].W != 95 || p.Ops[1].W != 75 || p.Ops[2].W != 55 {
		t.Fatal("bad ring diameters")
	}
	if p.Ops[3].Points[0] != image.Pt(160, 100) || p.Ops[3].Style.Width != 5 {
		t.Fatal("bad cross hair")
	}
}

func TestPrimitive_MoireRingCount(t *testing.T) {
	p, _, err := run(t, nil, 10,
		Push(0), Push(0), Push(10), Push(0.001), Push(0), Push(1e12), Push(0.5), Push(12), Push(0), Prim(AMPrimitive_Moire))
	if err != nil {
		t.Fatal(err)
	}
	// rings 0.001 apart inside a diameter of about 10
	if n := p.Count(plotter.OpCircle); n == 0 || n > 10001 {
		t.Fatal("ring count must be bounded, got " + strconv.Itoa(n))
	}
}

func TestPrimitive_Lines(t *testing.T) {
	p, _, _ := run(t, nil, 10, Push(1), Push(0.5), Push(0), Push(0), Push(1), Push(0), Push(90), Prim(AMPrimitive_VectLine))
	l := p.Ops[0]
	if l.Points[0] != image.Pt(100, 100) || l.Points[1] != image.Pt(100, 110) || l.Style.Width != 5 || l.Style.Cap != canvas.CapButt {
		t.Fatal("bad vector line " + l.Points[1].String())
	}
	p, _, _ = run(t, nil, 10, Push(1), Push(0.5), Push(0), Push(0), Push(1), Push(0), Push(0), Prim(AMPrimitive_Line2))
	if p.Ops[0].Points[1] != image.Pt(110, 100) {
		t.Fatal("code 2 must draw a vector line")
	}

	p, _, _ = run(t, nil, 10, Push(1), Push(4), Push(2), Push(0), Push(0), Push(0), Prim(AMPrimitive_CenterLine))
	want := []image.Point{{120, 110}, {120, 90}, {80, 90}, {80, 110}}
	for i := range want {
		if p.Ops[0].Points[i] != want[i] {
			t.Fatal("bad center line corner " + p.Ops[0].Points[i].String())
		}
	}

	p, _, _ = run(t, nil, 10, Push(1), Push(4), Push(2), Push(1), Push(1), Push(0), Prim(AMPrimitive_LowerLeft))
	want = []image.Point{{110, 110}, {150, 110}, {150, 90}, {110, 90}}
	for i := range want {
		if p.Ops[0].Points[i] != want[i] {
			t.Fatal("bad lower left corner " + p.Ops[0].Points[i].String())
		}
	}
}

func TestDrawPrimitive_FastPath(t *testing.T) {
	params := make([]float64, MaxApertureParameters)
	copy(params, []float64{1, 2, 0, 0})
	p := plotter.NewPlotter()
	handled, err := DrawPrimitive(p, AMPrimitive_Circle, params, 100, image.Pt(50, 50), canvas.Transparent)
	if err != nil || !handled {
		t.Fatal("fast path circle failed")
	}
	if p.Ops[0].W != 200 || p.Ops[0].Points[0] != image.Pt(50, 50) {
		t.Fatal("bad circle")
	}
	handled, _ = DrawPrimitive(p, AMPrimitiveType(9), params, 100, image.Pt(50, 50), canvas.Transparent)
	if handled {
		t.Fatal("code 9 is unknown")
	}
	_, err = DrawPrimitive(p, AMPrimitive_Moire, params[:3], 1, origin, canvas.Transparent)
	if !errors.Is(err, ErrParamIndex) {
		t.Fatal("short parameter vector must be reported")
	}
}

func TestPrimitive_NonFinite(t *testing.T) {
	p, _, err := run(t, nil, 1, Push(1), Push(math.NaN()), Push(0), Push(0), Push(1), Push(0), Push(0),
		Prim(AMPrimitive_VectLine))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Ops) != 0 {
		t.Fatal("non-finite line must be skipped")
	}
	p, _, _ = run(t, nil, 1, Push(1), Push(-4), Push(1), Push(0), Push(0), Push(0), Push(0), Prim(AMPrimitive_VectLine))
	if p.Ops[0].Style.Width != 0 {
		t.Fatal("negative width must be clamped")
	}
}
