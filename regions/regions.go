package regions

import (
	"errors"
	"image"
	"strconv"

	"github.com/akavel/polyclip-go"

	"github.com/SayCV/geda-gerbv/gerbimage"
)

/*####################  regions ##################################
 */

var (
	ErrNilRegion    = errors.New("bad region referenced (by nil ptr)")
	ErrRegionClosed = errors.New("region is not opened")
)

// Region collects the vertices of a polygon area fill
type Region struct {
	vertices []image.Point
	declared int // number of corners announced by the fill start
	layer    *gerbimage.Layer
	opened   bool
	// net numbers of the fill start and fill end
	StartNet int
	EndNet   int
}

func (region *Region) String() string {

	if region == nil {
		return "<nil>"
	}
	layerName := "<nil>"
	if region.layer != nil {
		layerName = region.layer.Name
	}
	return "Region:\n" +
		"\t\tlayer: " + layerName + "\n" +
		"\t\tcontains " + strconv.Itoa(len(region.vertices)) + " of " + strconv.Itoa(region.declared) + " vertices\n" +
		"\t\tfill start at net " + strconv.Itoa(region.StartNet) + "\n" +
		"\t\tfill end at net " + strconv.Itoa(region.EndNet)
}

// creates an idle region object
func NewRegion() *Region {
	retVal := new(Region)
	retVal.StartNet = -1
	retVal.EndNet = -1
	return retVal
}

// Start begins a new polygon, an unfinished one is dropped
func (region *Region) Start(corners int, layer *gerbimage.Layer, netNum int) {
	if corners < 0 {
		corners = 0
	}
	region.vertices = make([]image.Point, 0, corners)
	region.declared = corners
	region.layer = layer
	region.opened = true
	region.StartNet = netNum
	region.EndNet = -1
}

// Add appends a vertex; the buffer grows past the declared corner count if needed
func (region *Region) Add(p image.Point) error {
	if region == nil {
		return ErrNilRegion
	}
	if !region.opened {
		return ErrRegionClosed
	}
	region.vertices = append(region.vertices, p)
	return nil
}

// Close finishes the polygon and returns its vertices
func (region *Region) Close(netNum int) ([]image.Point, error) {
	if region == nil {
		return nil, ErrNilRegion
	}
	if !region.opened {
		return nil, ErrRegionClosed
	}
	region.opened = false
	region.EndNet = netNum
	retVal := region.vertices
	region.vertices = nil
	return retVal, nil
}

// returns the number of collected vertices
func (region *Region) GetNumXY() int {
	return len(region.vertices)
}

func (region *Region) Declared() int {
	return region.declared
}

func (region *Region) Layer() *gerbimage.Layer {
	return region.layer
}

// returns true if region is opened
func (region *Region) IsRegionOpened() (bool, error) {
	if region == nil {
		return false, ErrNilRegion
	}
	return region.opened, nil
}

// Contour converts device vertices to a polyclip contour
func Contour(vertices []image.Point) polyclip.Contour {
	retVal := make(polyclip.Contour, 0, len(vertices))
	for _, v := range vertices {
		retVal = append(retVal, polyclip.Point{X: float64(v.X), Y: float64(v.Y)})
	}
	return retVal
}

// Bounds returns the bounding box of vertices in device units
func Bounds(vertices []image.Point) image.Rectangle {
	if len(vertices) == 0 {
		return image.Rectangle{}
	}
	bb := Contour(vertices).BoundingBox()
	return image.Rect(int(bb.Min.X), int(bb.Min.Y), int(bb.Max.X)+1, int(bb.Max.Y)+1)
}
