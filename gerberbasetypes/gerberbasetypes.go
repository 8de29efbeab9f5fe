// Base types for Gerber image rendering
package gerberbasetypes

const (
	MaxInt = int(^uint(0) >> 1)
	MinInt = int(-MaxInt - 1)
)

// millimeters in one inch
const InchesToMM float64 = 25.4

type GerberApType int

const (
	AptypeCircle GerberApType = iota + 1
	AptypeRectangle
	AptypeOval
	AptypePoly
	AptypeMacro
	AptypeMacroCircle
	AptypeMacroOutline
	AptypeMacroPolygon
	AptypeMacroMoire
	AptypeMacroThermal
	AptypeMacroLine20
	AptypeMacroLine21
	AptypeMacroLine22
)

func (ga GerberApType) String() string {
	switch ga {
	case AptypeCircle:
		return "circle aperture"
	case AptypeRectangle:
		return "rectangle aperture"
	case AptypeOval:
		return "oval aperture"
	case AptypePoly:
		return "polygon aperture"
	case AptypeMacro:
		return "macro aperture"
	case AptypeMacroCircle:
		return "macro circle aperture"
	case AptypeMacroOutline:
		return "macro outline aperture"
	case AptypeMacroPolygon:
		return "macro polygon aperture"
	case AptypeMacroMoire:
		return "macro moire aperture"
	case AptypeMacroThermal:
		return "macro thermal aperture"
	case AptypeMacroLine20:
		return "macro vector line aperture"
	case AptypeMacroLine21:
		return "macro center line aperture"
	case AptypeMacroLine22:
		return "macro lower left line aperture"
	default:
	}
	return "Unknown aperture type"
}

// IsFastPathMacro reports whether the aperture is a single macro primitive
// whose parameters are stored directly in the aperture
func (ga GerberApType) IsFastPathMacro() bool {
	return ga >= AptypeMacroCircle && ga <= AptypeMacroLine22
}

type PolType int

const (
	PolTypeDark PolType = iota + 1
	PolTypeClear
)

func (p PolType) String() string {
	switch p {
	case PolTypeDark:
		return "Polarity: dark"
	case PolTypeClear:
		return "Polarity: clear"
	default:

	}
	return "Unknown polarity"
}

// polarity of the whole photoplot
type ImagePolarity int

const (
	ImagePositive ImagePolarity = iota + 1
	ImageNegative
)

func (p ImagePolarity) String() string {
	switch p {
	case ImagePositive:
		return "Image polarity: positive"
	case ImageNegative:
		return "Image polarity: negative"
	default:

	}
	return "Unknown image polarity"
}

type ApState int

const (
	ApStateOn ApState = iota + 1
	ApStateOff
	ApStateFlash
)

func (as ApState) String() string {
	switch as {
	case ApStateOn:
		return "Aperture state: on (D01)"
	case ApStateOff:
		return "Aperture state: off (D02)"
	case ApStateFlash:
		return "Aperture state: flash (D03)"
	default:

	}
	return "Unknown aperture state"
}

type IPmode int

const (
	IPModeLinear IPmode = iota + 1
	IPModeLinearX10
	IPModeLinearX01
	IPModeLinearX001
	IPModeCwC
	IPModeCCwC
	IPModePolyFillStart
	IPModePolyFillEnd
)

func (ipm IPmode) String() string {
	switch ipm {
	case IPModeLinear:
		return "Linear interpolation"
	case IPModeLinearX10:
		return "Linear interpolation x10"
	case IPModeLinearX01:
		return "Linear interpolation x0.1"
	case IPModeLinearX001:
		return "Linear interpolation x0.01"
	case IPModeCwC:
		return "Clockwise interpolation"
	case IPModeCCwC:
		return "Counter-clockwise interpolation"
	case IPModePolyFillStart:
		return "Polygon area fill start"
	case IPModePolyFillEnd:
		return "Polygon area fill end"
	default:

	}
	return "Unknown interpolation"
}

type Unit int

const (
	UnitInch Unit = iota + 1
	UnitMM
)

func (u Unit) String() string {
	switch u {
	case UnitInch:
		return "inches"
	case UnitMM:
		return "millimeters"
	default:

	}
	return "Unknown unit"
}
