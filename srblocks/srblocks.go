/*
The file contains the step and repeat descriptor shared by the layers of an image
*/
package srblocks

import (
	"errors"
	"strconv"
)

/*
############################## step and repeat blocks #################################
*/
type SRBlock struct {
	numX int
	numY int
	dX   float64
	dY   float64
}

// Offset is the displacement of one step and repeat tile
type Offset struct {
	I, J   int
	DX, DY float64
}

// NewSRBlock creates a step and repeat block; counts must be positive
func NewSRBlock(numX, numY int, dX, dY float64) (*SRBlock, error) {
	if numX < 1 {
		return nil, errors.New("NewSRBlock: X count < 1")
	}
	if numY < 1 {
		return nil, errors.New("NewSRBlock: Y count < 1")
	}
	return &SRBlock{numX: numX, numY: numY, dX: dX, dY: dY}, nil
}

// Single returns the 1x1 block
func Single() *SRBlock {
	return &SRBlock{numX: 1, numY: 1}
}

func (srblock *SRBlock) String() string {

	if srblock == nil {
		return "<nil>"
	}
	return "Step and repeat block:\n" +
		"\tcontains " + strconv.Itoa(srblock.numX) + " repeats along X axis and " + strconv.Itoa(srblock.numY) + " repeats along Y axis\n" +
		"\tdX=" + strconv.FormatFloat(srblock.dX, 'f', 5, 64) +
		", dY=" + strconv.FormatFloat(srblock.dY, 'f', 5, 64) + "\n"
}

// NumX returns the repeat count along X, a nil block counts as 1
func (srblock *SRBlock) NumX() int {
	if srblock == nil || srblock.numX < 1 {
		return 1
	}
	return srblock.numX
}

func (srblock *SRBlock) NumY() int {
	if srblock == nil || srblock.numY < 1 {
		return 1
	}
	return srblock.numY
}

func (srblock *SRBlock) DX() float64 {
	if srblock == nil {
		return 0
	}
	return srblock.dX
}

func (srblock *SRBlock) DY() float64 {
	if srblock == nil {
		return 0
	}
	return srblock.dY
}

// NTiles returns the total number of tiles
func (srblock *SRBlock) NTiles() int {
	return srblock.NumX() * srblock.NumY()
}

// Tiles enumerates tile offsets, X index outer, Y index inner
func (srblock *SRBlock) Tiles() []Offset {
	retVal := make([]Offset, 0, srblock.NTiles())
	for i := 0; i < srblock.NumX(); i++ {
		for j := 0; j < srblock.NumY(); j++ {
			retVal = append(retVal, Offset{I: i, J: j,
				DX: float64(i) * srblock.DX(),
				DY: float64(j) * srblock.DY()})
		}
	}
	return retVal
}
