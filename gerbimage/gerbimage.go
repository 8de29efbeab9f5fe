// Parsed photoplot image model consumed by the renderer
package gerbimage

import (
	"errors"
	"strconv"

	. "github.com/SayCV/geda-gerbv/gerberbasetypes"
	"github.com/SayCV/geda-gerbv/srblocks"
	"github.com/SayCV/geda-gerbv/xy"
)

var ErrParamCount = errors.New("too many aperture parameters")

/*
################################ apertures ###########################################
*/
type Aperture struct {
	Type       GerberApType
	Parameters [MaxApertureParameters]float64
	// number of meaningful entries in Parameters
	NParams int
	Unit    Unit
	// owned program, only for AptypeMacro
	Macro *MacroProgram
}

// NewAperture copies params into a fixed size parameter vector
func NewAperture(apType GerberApType, unit Unit, params ...float64) (*Aperture, error) {
	if len(params) > MaxApertureParameters {
		return nil, ErrParamCount
	}
	retVal := &Aperture{Type: apType, Unit: unit, NParams: len(params)}
	copy(retVal.Parameters[:], params)
	return retVal, nil
}

// NewMacroAperture creates a macro aperture, params are the macro arguments $1...$n
func NewMacroAperture(prog *MacroProgram, unit Unit, params ...float64) (*Aperture, error) {
	retVal, err := NewAperture(AptypeMacro, unit, params...)
	if err != nil {
		return nil, err
	}
	retVal.Macro = prog
	return retVal, nil
}

func (ap *Aperture) String() string {
	if ap == nil {
		return "<nil>"
	}
	retVal := ap.Type.String() + ", unit " + ap.Unit.String() + ", params:"
	for i := 0; i < ap.NParams; i++ {
		retVal += " " + strconv.FormatFloat(ap.Parameters[i], 'f', 5, 64)
	}
	if ap.Macro != nil {
		retVal += "\n" + ap.Macro.String()
	}
	return retVal
}

/*
################################ nets ###########################################
*/

// circular interpolation segment, angles in degrees
type CircularSegment struct {
	Center xy.XY
	Width  float64
	Height float64
	Angle1 float64
	Angle2 float64
}

type Layer struct {
	Name     string
	Polarity PolType
	StepRep  *srblocks.SRBlock
}

func NewLayer(name string, pol PolType) *Layer {
	return &Layer{Name: name, Polarity: pol, StepRep: srblocks.Single()}
}

func (l *Layer) String() string {
	if l == nil {
		return "<nil>"
	}
	return "Layer " + l.Name + ": " + l.Polarity.String() + "\n" + l.StepRep.String()
}

type Net struct {
	Start         xy.XY
	Stop          xy.XY
	Aperture      int
	ApertureState ApState
	Interpolation IPmode
	Segment       *CircularSegment
	// polygon corners, valid for IPModePolyFillStart only
	Corners int
	Layer   *Layer
}

func (n *Net) String() string {
	if n == nil {
		return "<nil>"
	}
	return "Net: " + n.Start.String() + " -> " + n.Stop.String() +
		", D" + strconv.Itoa(n.Aperture) + ", " + n.ApertureState.String() + ", " + n.Interpolation.String()
}

/*
################################ image ###########################################
*/
type Image struct {
	Layers    []*Layer
	Apertures []*Aperture
	// image offset
	OffsetA float64
	OffsetB float64
	Nets    []*Net
}

func NewImage() *Image {
	return &Image{
		Layers:    make([]*Layer, 0),
		Apertures: make([]*Aperture, 0),
		Nets:      make([]*Net, 0),
	}
}

// Aperture returns the aperture with index i or nil if it is not defined
func (img *Image) Aperture(i int) *Aperture {
	if i < 0 || i >= len(img.Apertures) {
		return nil
	}
	return img.Apertures[i]
}

// SetAperture places ap at index i growing the table as needed
func (img *Image) SetAperture(i int, ap *Aperture) {
	if i < 0 {
		return
	}
	for len(img.Apertures) <= i {
		img.Apertures = append(img.Apertures, nil)
	}
	img.Apertures[i] = ap
}

func (img *Image) AddLayer(l *Layer) *Layer {
	img.Layers = append(img.Layers, l)
	return l
}

func (img *Image) AddNet(n *Net) *Net {
	img.Nets = append(img.Nets, n)
	return n
}
