package main

import (
	"testing"

	"github.com/SayCV/geda-gerbv/calculator"
	"github.com/SayCV/geda-gerbv/canvas"
	. "github.com/SayCV/geda-gerbv/gerberbasetypes"
	"github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/raster"
	"github.com/SayCV/geda-gerbv/render"
)

func TestParseList(t *testing.T) {
	v, err := parseList(" 1, 0.5 ,2")
	if err != nil || len(v) != 3 || v[1] != 0.5 {
		t.Fatal("bad list")
	}
	if v, err := parseList(""); err != nil || v != nil {
		t.Fatal("empty list")
	}
	if _, err := parseList("1,x"); err == nil {
		t.Fatal("bad number accepted")
	}
}

func TestParseRepeat(t *testing.T) {
	sr, err := parseRepeat("")
	if err != nil || sr.NTiles() != 1 {
		t.Fatal("default must be a single tile")
	}
	sr, err = parseRepeat("2,3,0.1,0.2")
	if err != nil || sr.NTiles() != 6 {
		t.Fatal("bad step and repeat")
	}
	if _, err := parseRepeat("2,3"); err == nil {
		t.Fatal("short step and repeat accepted")
	}
}

func TestFlashImage(t *testing.T) {
	prog, err := calculator.CompileDefinition("%AMDONUT*1,1,$1,0,0*1,0,$2,0,0*%")
	if err != nil {
		t.Fatal(err)
	}
	ap, err := gerbimage.NewMacroAperture(prog, UnitInch, 0.4, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	sr, _ := parseRepeat("")
	mask, err := raster.NewMask(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	rc := render.NewRender(render.Options{Scale: 100, TranslateX: 50, TranslateY: 50}, &render.DiagnosticCollector{})
	if err := rc.RenderImage(flashImage(ap, sr), mask); err != nil {
		t.Fatal(err)
	}
	// 40 pixel ring with a 20 pixel hole on opaque film
	if mask.At(50, 50) != canvas.Opaque || mask.At(50, 35) != canvas.Transparent || mask.At(50, 5) != canvas.Opaque {
		t.Fatal("bad donut")
	}
}
