package srblocks

import (
	"strconv"
	"testing"
)

func TestNewSRBlock(t *testing.T) {
	type testCase struct {
		nx, ny int
		ok     bool
	}
	testCases := []testCase{
		{1, 1, true},
		{3, 2, true},
		{0, 1, false},
		{1, 0, false},
		{-2, 5, false},
	}
	for i := range testCases {
		_, err := NewSRBlock(testCases[i].nx, testCases[i].ny, 1, 1)
		if (err == nil) != testCases[i].ok {
			t.Fatal("case " + strconv.Itoa(i) + " failed")
		}
	}
}

func TestSRBlock_Tiles(t *testing.T) {
	sr, err := NewSRBlock(2, 3, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	tiles := sr.Tiles()
	if len(tiles) != 6 || sr.NTiles() != 6 {
		t.Fatal("expected 6 tiles, got " + strconv.Itoa(len(tiles)))
	}
	last := tiles[len(tiles)-1]
	if last.I != 1 || last.J != 2 || last.DX != 10 || last.DY != 10 {
		t.Fatal("bad last tile")
	}
	if tiles[1].I != 0 || tiles[1].J != 1 {
		t.Fatal("Y index must be the inner loop")
	}
}

func TestSRBlock_Nil(t *testing.T) {
	var sr *SRBlock
	if sr.NumX() != 1 || sr.NumY() != 1 || sr.DX() != 0 {
		t.Fatal("nil block must behave as a single tile")
	}
	if len(sr.Tiles()) != 1 {
		t.Fatal("nil block must produce one tile")
	}
	if sr.String() != "<nil>" {
		t.Fatal("bad string")
	}
	t.Log(Single().String())
}
