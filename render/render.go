package render

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/SayCV/geda-gerbv/amprocessor"
	"github.com/SayCV/geda-gerbv/canvas"
	"github.com/SayCV/geda-gerbv/configurator"
	. "github.com/SayCV/geda-gerbv/gerberbasetypes"
	"github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/regions"
	"github.com/SayCV/geda-gerbv/srblocks"
	"github.com/SayCV/geda-gerbv/xy"
)

var (
	ErrNilImage             = errors.New("nil image")
	ErrNilCanvas            = errors.New("nil canvas")
	ErrUnknownApertureType  = errors.New("unknown aperture type")
	ErrUnknownApertureState = errors.New("unknown aperture state")
	ErrBadPolarity          = errors.New("bad image polarity")
	ErrBadScale             = errors.New("scale must be a positive number")
)

// primitive codes of the single primitive macro apertures
var fastPathCodes = map[GerberApType]gerbimage.AMPrimitiveType{
	AptypeMacroCircle:  gerbimage.AMPrimitive_Circle,
	AptypeMacroOutline: gerbimage.AMPrimitive_OutLine,
	AptypeMacroPolygon: gerbimage.AMPrimitive_Polygon,
	AptypeMacroMoire:   gerbimage.AMPrimitive_Moire,
	AptypeMacroThermal: gerbimage.AMPrimitive_Thermal,
	AptypeMacroLine20:  gerbimage.AMPrimitive_VectLine,
	AptypeMacroLine21:  gerbimage.AMPrimitive_CenterLine,
	AptypeMacroLine22:  gerbimage.AMPrimitive_LowerLeft,
}

// Options are the view parameters of a render pass
type Options struct {
	// device units per image unit
	Scale      float64
	TranslateX float64
	TranslateY float64
	Polarity   ImagePolarity
	// draw single primitive macro apertures without the millimeter correction
	LegacyMacroScale bool
}

/*
 ************************** Rendering context ****************************
 */
type Render struct {
	Options
	Diag           Diagnostics
	PrintStatistic bool

	//statistic
	NetCounter     int
	TileCounter    int
	FlashCounter   int
	StrokeCounter  int
	ArcCounter     int
	RegionCounter  int
	MacroCounter   int
	SkippedCounter int

	// polygons being collected, one per step and repeat tile
	polygons map[tileKey]*regions.Region
}

type tileKey struct {
	i, j int
}

func NewRender(opt Options, diag Diagnostics) *Render {
	retVal := new(Render)
	retVal.Init(opt, diag)
	return retVal
}

func (rc *Render) Init(opt Options, diag Diagnostics) {
	rc.Options = opt
	if rc.Polarity == 0 {
		rc.Polarity = ImagePositive
	}
	if diag == nil {
		diag = GlogDiagnostics{}
	}
	rc.Diag = diag
	rc.resetStatistic()
}

// NewRenderFromViper builds a rendering context from the configuration
func NewRenderFromViper(v *viper.Viper) (*Render, error) {
	pol, err := ParsePolarity(v.GetString(configurator.CfgRenderPolarity))
	if err != nil {
		return nil, err
	}
	scale := v.GetFloat64(configurator.CfgRenderScale)
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadScale, scale)
	}
	rc := NewRender(Options{
		Scale:            scale,
		TranslateX:       v.GetFloat64(configurator.CfgRenderTranslateX),
		TranslateY:       v.GetFloat64(configurator.CfgRenderTranslateY),
		Polarity:         pol,
		LegacyMacroScale: v.GetBool(configurator.CfgRenderLegacyMacroScale),
	}, GlogDiagnostics{})
	rc.PrintStatistic = v.GetBool(configurator.CfgCommonPrintStatistic)
	return rc, nil
}

func ParsePolarity(s string) (ImagePolarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", configurator.PolarityPositive:
		return ImagePositive, nil
	case configurator.PolarityNegative:
		return ImageNegative, nil
	default:
	}
	return 0, fmt.Errorf("%w: %q", ErrBadPolarity, s)
}

// RenderImage draws img on cv with a one-off rendering context
func RenderImage(img *gerbimage.Image, cv canvas.Canvas, scale, tx, ty float64, polarity ImagePolarity) error {
	rc := NewRender(Options{Scale: scale, TranslateX: tx, TranslateY: ty, Polarity: polarity}, nil)
	return rc.RenderImage(img, cv)
}

func (rc *Render) resetStatistic() {
	rc.NetCounter = 0
	rc.TileCounter = 0
	rc.FlashCounter = 0
	rc.StrokeCounter = 0
	rc.ArcCounter = 0
	rc.RegionCounter = 0
	rc.MacroCounter = 0
	rc.SkippedCounter = 0
	rc.polygons = make(map[tileKey]*regions.Region)
}

// RenderImage fills the background and draws every net of img.
// Drawing stops at the first fatal error, operations already issued are kept.
func (rc *Render) RenderImage(img *gerbimage.Image, cv canvas.Canvas) error {
	if img == nil {
		return ErrNilImage
	}
	if cv == nil {
		return ErrNilCanvas
	}
	rc.resetStatistic()

	if rc.Polarity == ImageNegative {
		cv.FillBackground(canvas.Transparent)
	} else {
		cv.FillBackground(canvas.Opaque)
	}

	for n, net := range img.Nets {
		if net == nil {
			continue
		}
		rc.NetCounter++
		var sr *srblocks.SRBlock
		if net.Layer != nil {
			sr = net.Layer.StepRep
		}
		for _, tile := range sr.Tiles() {
			rc.TileCounter++
			if err := rc.processNet(img, cv, n, net, tile); err != nil {
				glog.Errorln("render aborted:", err)
				return err
			}
		}
	}
	if rc.PrintStatistic {
		glog.Infoln(rc.String())
	}
	return nil
}

// net color: clear layers XOR negative image erase
func (rc *Render) netColor(net *gerbimage.Net) canvas.Color {
	cleared := net.Layer != nil && net.Layer.Polarity == PolTypeClear
	if cleared != (rc.Polarity == ImageNegative) {
		return canvas.Opaque
	}
	return canvas.Transparent
}

// transform converts an image point of the tile to device units
func (rc *Render) transform(img *gerbimage.Image, p *xy.XY, tile srblocks.Offset) (image.Point, bool) {
	x := (img.OffsetA+p.GetX()+tile.DX)*rc.Scale + rc.TranslateX
	y := (-img.OffsetB-p.GetY()-tile.DY)*rc.Scale + rc.TranslateY
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return image.Point{}, false
	}
	return image.Pt(int(math.Round(x)), int(math.Round(y))), true
}

// scaled parameter, negative values are clamped
func scaled(v, scale float64) int {
	r := v * scale
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return int(math.Round(r))
}

func (rc *Render) region(tile srblocks.Offset) *regions.Region {
	key := tileKey{tile.I, tile.J}
	r, ok := rc.polygons[key]
	if !ok {
		r = regions.NewRegion()
		rc.polygons[key] = r
	}
	return r
}

func (rc *Render) report(kind DiagnosticKind, n int, net *gerbimage.Net) {
	rc.Diag.Report(Diagnostic{Kind: kind, Net: n, Aperture: net.Aperture})
}

func (rc *Render) processNet(img *gerbimage.Image, cv canvas.Canvas, n int, net *gerbimage.Net, tile srblocks.Offset) error {
	color := rc.netColor(net)

	/*
	 * Polygon Area Fill routines
	 */
	switch net.Interpolation {
	case IPModePolyFillStart:
		// a new run abandons every unfinished one, whatever its tile
		if tile.I == 0 && tile.J == 0 {
			rc.polygons = make(map[tileKey]*regions.Region)
		}
		rc.region(tile).Start(net.Corners, net.Layer, n)
		return nil
	case IPModePolyFillEnd:
		vertices, err := rc.region(tile).Close(n)
		if err != nil {
			rc.report(DiagOrphanFillEnd, n, net)
			return nil
		}
		rc.RegionCounter++
		if glog.V(2) {
			glog.Infoln("region of", len(vertices), "vertices at", regions.Bounds(vertices))
		}
		cv.DrawPolygon(true, vertices, canvas.Stroke(color, 1, canvas.CapProjecting))
		return nil
	default:
	}

	start, ok1 := rc.transform(img, &net.Start, tile)
	stop, ok2 := rc.transform(img, &net.Stop, tile)

	region := rc.region(tile)
	opened, err := region.IsRegionOpened()
	if err != nil {
		return fmt.Errorf("net %d: %w", n, err)
	}
	if opened {
		// only the stop point becomes a vertex
		if !ok2 {
			rc.SkippedCounter++
			rc.report(DiagNonFinite, n, net)
			return nil
		}
		if err := region.Add(stop); err != nil {
			return fmt.Errorf("net %d: %w", n, err)
		}
		return nil
	}

	if !ok1 || !ok2 {
		rc.SkippedCounter++
		rc.report(DiagNonFinite, n, net)
		return nil
	}

	// undefined apertures are allowed while the aperture is off
	ap := img.Aperture(net.Aperture)
	if ap == nil {
		if net.ApertureState != ApStateOff {
			rc.report(DiagUndefinedAperture, n, net)
		}
		rc.SkippedCounter++
		return nil
	}

	unitScale := rc.Scale
	if ap.Unit == UnitMM {
		unitScale = rc.Scale / InchesToMM
	}

	if glog.V(3) {
		glog.Infoln(n, net.String(), start, stop)
	}

	switch net.ApertureState {
	case ApStateOn:
		return rc.stroke(img, cv, n, net, ap, tile, start, stop, unitScale, color)
	case ApStateOff:
		return nil
	case ApStateFlash:
		return rc.flash(cv, n, net, ap, stop, unitScale, color)
	default:
	}
	return fmt.Errorf("net %d: %w: %d", n, ErrUnknownApertureState, int(net.ApertureState))
}

func (rc *Render) stroke(img *gerbimage.Image, cv canvas.Canvas, n int, net *gerbimage.Net, ap *gerbimage.Aperture,
	tile srblocks.Offset, start, stop image.Point, unitScale float64, color canvas.Color) error {

	p1 := scaled(ap.Parameters[0], unitScale)
	pen := canvas.CapRound
	if ap.Type == AptypeRectangle {
		pen = canvas.CapProjecting
	}
	style := canvas.Stroke(color, p1, pen)

	switch net.Interpolation {
	case IPModeLinearX10, IPModeLinearX01, IPModeLinearX001:
		rc.report(DiagDashedLinear, n, net)
		rc.StrokeCounter++
		cv.DrawLine(start, stop, canvas.Stroke(color, p1, canvas.CapRound).WithDash(true))
	case IPModeLinear:
		rc.StrokeCounter++
		if ap.Type != AptypeRectangle {
			cv.DrawLine(start, stop, style)
			return nil
		}
		dx := scaled(ap.Parameters[0]/2, unitScale)
		dy := scaled(ap.Parameters[1]/2, unitScale)
		if start.X > stop.X {
			dx = -dx
		}
		if start.Y > stop.Y {
			dy = -dy
		}
		hex := []image.Point{
			{start.X - dx, start.Y - dy},
			{start.X - dx, start.Y + dy},
			{stop.X - dx, stop.Y + dy},
			{stop.X + dx, stop.Y + dy},
			{stop.X + dx, stop.Y - dy},
			{start.X + dx, start.Y - dy},
		}
		cv.DrawPolygon(true, hex, canvas.Fill(color))
	case IPModeCwC, IPModeCCwC:
		seg := net.Segment
		if seg == nil {
			rc.report(DiagMissingSegment, n, net)
			return nil
		}
		center, ok := rc.transform(img, &seg.Center, tile)
		if !ok {
			rc.report(DiagNonFinite, n, net)
			return nil
		}
		rc.ArcCounter++
		cv.DrawArc(center, scaled(seg.Width, rc.Scale), scaled(seg.Height, rc.Scale), seg.Angle1, seg.Angle2, style)
	default:
	}
	return nil
}

func (rc *Render) flash(cv canvas.Canvas, n int, net *gerbimage.Net, ap *gerbimage.Aperture,
	stop image.Point, unitScale float64, color canvas.Color) error {

	rc.FlashCounter++
	p1 := scaled(ap.Parameters[0], unitScale)
	p2 := scaled(ap.Parameters[1], unitScale)
	p3 := scaled(ap.Parameters[2], unitScale)

	switch ap.Type {
	case AptypeCircle:
		cv.DrawCircle(true, stop, p1, canvas.Fill(color))
		if p2 > 0 {
			if p3 > 0 {
				rc.report(DiagSquareHole, n, net)
			}
			cv.DrawCircle(true, stop, p2, canvas.Fill(color.Invert()))
		}
	case AptypeRectangle:
		cv.DrawRectangle(true, stop, p1, p2, canvas.Fill(color))
	case AptypeOval:
		cv.DrawOval(true, stop, p1, p2, canvas.Fill(color))
	case AptypePoly:
		rc.report(DiagPolygonApproximation, n, net)
		cv.DrawCircle(true, stop, p1, canvas.Fill(color))
	case AptypeMacro:
		rc.MacroCounter++
		handled, err := amprocessor.Evaluate(cv, ap.Macro, ap.Parameters[:], unitScale, stop, color)
		if err != nil {
			return fmt.Errorf("net %d, aperture D%d: %w", n, net.Aperture, err)
		}
		if !handled {
			rc.report(DiagUnhandledMacro, n, net)
		}
	default:
		code, ok := fastPathCodes[ap.Type]
		if !ok {
			return fmt.Errorf("net %d, aperture D%d: %w: %d", n, net.Aperture, ErrUnknownApertureType, int(ap.Type))
		}
		rc.MacroCounter++
		scale := unitScale
		if rc.LegacyMacroScale {
			scale = rc.Scale
		}
		if _, err := amprocessor.DrawPrimitive(cv, code, ap.Parameters[:], scale, stop, color); err != nil {
			return fmt.Errorf("net %d, aperture D%d: %w", n, net.Aperture, err)
		}
	}
	return nil
}

func (rc *Render) String() string {
	return "Render statistic:\n" +
		"\tnets: " + strconv.Itoa(rc.NetCounter) + "\n" +
		"\ttiles: " + strconv.Itoa(rc.TileCounter) + "\n" +
		"\tflashes: " + strconv.Itoa(rc.FlashCounter) + "\n" +
		"\tmacro flashes: " + strconv.Itoa(rc.MacroCounter) + "\n" +
		"\tstrokes: " + strconv.Itoa(rc.StrokeCounter) + "\n" +
		"\tarcs: " + strconv.Itoa(rc.ArcCounter) + "\n" +
		"\tregions: " + strconv.Itoa(rc.RegionCounter) + "\n" +
		"\tskipped: " + strconv.Itoa(rc.SkippedCounter) + "\n"
}
