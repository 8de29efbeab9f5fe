package render

import (
	"strconv"

	"github.com/golang/glog"
)

type DiagnosticKind int

const (
	DiagUndefinedAperture DiagnosticKind = iota + 1
	DiagDashedLinear
	DiagPolygonApproximation
	DiagUnhandledMacro
	DiagSquareHole
	DiagMissingSegment
	DiagNonFinite
	DiagOrphanFillEnd
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUndefinedAperture:
		return "undefined aperture"
	case DiagDashedLinear:
		return "linear interpolation with a scale other than x1"
	case DiagPolygonApproximation:
		return "polygon aperture drawn as a circle"
	case DiagUnhandledMacro:
		return "aperture macro with unhandled primitives"
	case DiagSquareHole:
		return "square hole drawn as a round one"
	case DiagMissingSegment:
		return "arc without a circular segment"
	case DiagNonFinite:
		return "non-finite coordinates"
	case DiagOrphanFillEnd:
		return "polygon fill end without a start"
	default:
	}
	return "Unknown diagnostic"
}

// Diagnostic is a non fatal finding of a render pass
type Diagnostic struct {
	Kind     DiagnosticKind
	Net      int
	Aperture int
}

func (d Diagnostic) String() string {
	return "net " + strconv.Itoa(d.Net) + ", aperture D" + strconv.Itoa(d.Aperture) + ": " + d.Kind.String()
}

// Diagnostics receives findings that never fail the pass
type Diagnostics interface {
	Report(d Diagnostic)
}

// GlogDiagnostics writes findings to the warning log
type GlogDiagnostics struct{}

func (GlogDiagnostics) Report(d Diagnostic) {
	glog.Warningln(d.String())
}

// DiagnosticCollector keeps findings in memory
type DiagnosticCollector struct {
	Items []Diagnostic
}

func (dc *DiagnosticCollector) Report(d Diagnostic) {
	dc.Items = append(dc.Items, d)
}

// Count returns the number of findings of kind k
func (dc *DiagnosticCollector) Count(k DiagnosticKind) int {
	retVal := 0
	for i := range dc.Items {
		if dc.Items[i].Kind == k {
			retVal++
		}
	}
	return retVal
}
