/*
 Recording canvas: keeps every drawing operation and a text command stream
*/
package plotter

import (
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/SayCV/geda-gerbv/canvas"
)

type OpKind int

const (
	OpBackground OpKind = iota + 1
	OpCircle
	OpRectangle
	OpOval
	OpLine
	OpPolygon
	OpArc
)

func (k OpKind) String() string {
	switch k {
	case OpBackground:
		return "background"
	case OpCircle:
		return "circle"
	case OpRectangle:
		return "rectangle"
	case OpOval:
		return "oval"
	case OpLine:
		return "line"
	case OpPolygon:
		return "polygon"
	case OpArc:
		return "arc"
	default:
	}
	return "Unknown operation"
}

// Op is one recorded canvas call
type Op struct {
	Kind   OpKind
	Filled bool
	// center for circles, rectangles, ovals and arcs; ends for lines; vertices for polygons
	Points []image.Point
	// diameter, width or x axis
	W int
	// height or y axis
	H      int
	Angle1 float64
	Angle2 float64
	Style  canvas.Style
}

/*
	Plotter current status and statistic
*/
type PlotterParams struct {
	selectPenCmds   int
	moveCmds        int
	drawCmds        int
	opCount         map[OpKind]int
	currentPosX     int
	currentPosY     int
	currentPen      int
	outStringBuffer []string
	Ops             []Op
}

var _ canvas.Canvas = (*PlotterParams)(nil)

func NewPlotter() *PlotterParams {
	retVal := new(PlotterParams)
	retVal.Init()
	return retVal
}

/*
	Initializes Plotter object and generates plotter reset command
*/
func (plotter *PlotterParams) Init() string {
	plotter.currentPosX = 0
	plotter.currentPosY = 0
	plotter.currentPen = -1
	plotter.selectPenCmds = 0
	plotter.moveCmds = 0
	plotter.drawCmds = 0
	plotter.opCount = make(map[OpKind]int)
	plotter.Ops = make([]Op, 0)
	plotter.outStringBuffer = make([]string, 0)
	retVal := "J\n"
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal
}

func (plotter *PlotterParams) emit(s string) {
	plotter.outStringBuffer = append(plotter.outStringBuffer, s)
}

func (plotter *PlotterParams) record(op Op) {
	plotter.Ops = append(plotter.Ops, op)
	plotter.opCount[op.Kind]++
}

// pen 1 draws transparent, pen 2 opaque
func (plotter *PlotterParams) takePen(c canvas.Color) {
	pen := 2
	if c == canvas.Transparent {
		pen = 1
	}
	if pen != plotter.currentPen {
		plotter.currentPen = pen
		plotter.selectPenCmds++
		plotter.emit("P" + strconv.Itoa(pen) + "\n")
	}
}

func (plotter *PlotterParams) moveTo(x, y int) {
	if plotter.currentPosX == x && plotter.currentPosY == y {
		return
	}
	plotter.currentPosX = x
	plotter.currentPosY = y
	plotter.moveCmds++
	plotter.emit("MA " + strconv.Itoa(x) + " , " + strconv.Itoa(y) + "\n")
}

func (plotter *PlotterParams) drawTo(x, y int) {
	plotter.currentPosX = x
	plotter.currentPosY = y
	plotter.drawCmds++
	plotter.emit("DA " + strconv.Itoa(x) + " , " + strconv.Itoa(y) + "\n")
}

func styleSuffix(filled bool, s canvas.Style) string {
	retVal := " ; "
	if filled {
		retVal += "F"
	} else {
		retVal += "W" + strconv.Itoa(s.Width)
	}
	if s.Dashed {
		retVal += " DASH"
	}
	if s.Cap != canvas.CapButt {
		retVal += " " + strings.ToUpper(s.Cap.String())
	}
	return retVal + "\n"
}

func (plotter *PlotterParams) FillBackground(c canvas.Color) {
	plotter.record(Op{Kind: OpBackground, Style: canvas.Fill(c)})
	plotter.takePen(c)
	plotter.emit("BG\n")
}

func (plotter *PlotterParams) DrawCircle(filled bool, center image.Point, diameter int, s canvas.Style) {
	plotter.record(Op{Kind: OpCircle, Filled: filled, Points: []image.Point{center}, W: diameter, H: diameter, Style: s})
	plotter.takePen(s.Color)
	r := diameter / 2
	// move to the rightmost circle point
	plotter.moveTo(center.X+r, center.Y)
	plotter.drawCmds++
	plotter.emit("D C" + strconv.Itoa(r) + " , 0 , 360" + styleSuffix(filled, s))
}

func (plotter *PlotterParams) DrawRectangle(filled bool, center image.Point, width, height int, s canvas.Style) {
	plotter.record(Op{Kind: OpRectangle, Filled: filled, Points: []image.Point{center}, W: width, H: height, Style: s})
	plotter.takePen(s.Color)
	plotter.moveTo(center.X-width/2, center.Y-height/2)
	plotter.drawCmds++
	plotter.emit("RA " + strconv.Itoa(width) + " , " + strconv.Itoa(height) + styleSuffix(filled, s))
}

func (plotter *PlotterParams) DrawOval(filled bool, center image.Point, xAxis, yAxis int, s canvas.Style) {
	plotter.record(Op{Kind: OpOval, Filled: filled, Points: []image.Point{center}, W: xAxis, H: yAxis, Style: s})
	plotter.takePen(s.Color)
	p0, p1, w := canvas.OvalStroke(center, xAxis, yAxis)
	plotter.moveTo(p0.X, p0.Y)
	plotter.drawCmds++
	plotter.emit("DO " + strconv.Itoa(p1.X) + " , " + strconv.Itoa(p1.Y) + styleSuffix(false, s.WithWidth(w)))
}

func (plotter *PlotterParams) DrawLine(p0, p1 image.Point, s canvas.Style) {
	plotter.record(Op{Kind: OpLine, Points: []image.Point{p0, p1}, W: s.Width, Style: s})
	plotter.takePen(s.Color)
	plotter.moveTo(p0.X, p0.Y)
	plotter.drawCmds++
	plotter.currentPosX = p1.X
	plotter.currentPosY = p1.Y
	plotter.emit("DA " + strconv.Itoa(p1.X) + " , " + strconv.Itoa(p1.Y) + styleSuffix(false, s))
}

func (plotter *PlotterParams) DrawPolygon(filled bool, vertices []image.Point, s canvas.Style) {
	pts := make([]image.Point, len(vertices))
	copy(pts, vertices)
	plotter.record(Op{Kind: OpPolygon, Filled: filled, Points: pts, Style: s})
	if len(pts) == 0 {
		return
	}
	plotter.takePen(s.Color)
	plotter.moveTo(pts[0].X, pts[0].Y)
	if filled {
		plotter.emit("PF " + strconv.Itoa(len(pts)) + "\n")
	}
	for _, p := range pts[1:] {
		plotter.drawTo(p.X, p.Y)
	}
	if filled {
		plotter.drawTo(pts[0].X, pts[0].Y)
		plotter.emit("PE\n")
	}
}

func (plotter *PlotterParams) DrawArc(center image.Point, width, height int, angle1, angle2 float64, s canvas.Style) {
	plotter.record(Op{Kind: OpArc, Points: []image.Point{center}, W: width, H: height, Angle1: angle1, Angle2: angle2, Style: s})
	plotter.takePen(s.Color)
	plotter.moveTo(center.X, center.Y)
	plotter.drawCmds++
	plotter.emit("DC " + strconv.Itoa(width) + " , " + strconv.Itoa(height) + " , " +
		strconv.FormatFloat(angle1, 'f', 3, 64) + " , " + strconv.FormatFloat(angle2, 'f', 3, 64) +
		styleSuffix(false, s))
}

// Count returns the number of recorded operations of kind k
func (plotter *PlotterParams) Count(k OpKind) int {
	return plotter.opCount[k]
}

// Commands returns the command stream with redundant moves removed
func (plotter *PlotterParams) Commands() []string {
	plotter.squeeze()
	retVal := make([]string, len(plotter.outStringBuffer))
	copy(retVal, plotter.outStringBuffer)
	return retVal
}

/*
	Deletes unnecessary MA commands
*/
func (plotter *PlotterParams) squeeze() {
	tmpString := make([]string, 0, len(plotter.outStringBuffer))
	var lastMA string
	for a := range plotter.outStringBuffer {
		if strings.HasPrefix(plotter.outStringBuffer[a], "MA ") {
			lastMA = plotter.outStringBuffer[a]
		} else {
			if len(lastMA) > 0 {
				tmpString = append(tmpString, lastMA)
			}
			tmpString = append(tmpString, plotter.outStringBuffer[a])
			lastMA = ""
		}
	}
	plotter.outStringBuffer = tmpString
}

// WriteTo writes the command stream to w
func (plotter *PlotterParams) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range plotter.Commands() {
		n, err := io.WriteString(w, s)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

/*
	Writes the command stream to disk
*/
func (plotter *PlotterParams) WriteFile(outFileName string) error {
	outputFile, err := os.OpenFile(outFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer outputFile.Close()
	if _, err = plotter.WriteTo(outputFile); err != nil {
		return err
	}
	if err = outputFile.Sync(); err != nil {
		return err
	}
	return outputFile.Close()
}

func (plotter *PlotterParams) String() string {
	retVal := "Plotter statistic:\n" +
		"\tpen changes: " + strconv.Itoa(plotter.selectPenCmds) + "\n" +
		"\tmoves: " + strconv.Itoa(plotter.moveCmds) + "\n" +
		"\tdraw commands: " + strconv.Itoa(plotter.drawCmds) + "\n"
	for k := OpBackground; k <= OpArc; k++ {
		retVal += "\t" + k.String() + ": " + strconv.Itoa(plotter.opCount[k]) + "\n"
	}
	return retVal
}

func (plotter *PlotterParams) PrintStatistic() {
	glog.Infoln(plotter.String())
}
