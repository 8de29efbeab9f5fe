// Aperture macro preview tool: flashes one macro aperture onto a film mask
// and writes it as PNG and, optionally, as a plotter command stream.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/SayCV/geda-gerbv/calculator"
	"github.com/SayCV/geda-gerbv/configurator"
	. "github.com/SayCV/geda-gerbv/gerberbasetypes"
	"github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/plotter"
	"github.com/SayCV/geda-gerbv/raster"
	"github.com/SayCV/geda-gerbv/render"
	"github.com/SayCV/geda-gerbv/srblocks"
	"github.com/SayCV/geda-gerbv/xy"
)

var (
	macroDef    = flag.String("m", "", "aperture macro definition, e.g. %AMDONUT*1,1,$1,0,0*1,0,$2,0,0*%")
	paramList   = flag.String("p", "", "comma separated macro arguments $1,$2,...")
	unitMM      = flag.Bool("mm", false, "arguments are millimeters")
	repeat      = flag.String("sr", "", "step and repeat as nx,ny,dx,dy")
	outPNG      = flag.String("o", "flash.png", "output PNG file")
	outPlotter  = flag.String("plt", "", "plotter command stream output file")
	printConfig = flag.Bool("cfg", false, "print the configuration")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	fmt.Println(returnAppInfo())
	timeStamp := time.Now()

	viperConfig := viper.New()
	configurator.SetDefaults(viperConfig)
	if err := configurator.ProcessConfigFile(viperConfig); err != nil {
		fmt.Println(err)
		fmt.Println("Using built-in defaults.")
	}
	if *printConfig {
		configurator.DiagnosticAllCfgPrint(viperConfig, os.Stdout)
	}

	if len(*macroDef) == 0 {
		fmt.Println("No aperture macro specified.\nUsage:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	prog, err := calculator.CompileDefinition(*macroDef)
	checkError(err, 100)
	params, err := parseList(*paramList)
	checkError(err, 101)
	sr, err := parseRepeat(*repeat)
	checkError(err, 102)

	unit := UnitInch
	if *unitMM {
		unit = UnitMM
	}
	ap, err := gerbimage.NewMacroAperture(prog, unit, params...)
	checkError(err, 103)
	img := flashImage(ap, sr)

	mask, err := raster.NewMaskFromViper(viperConfig)
	checkError(err, 200)
	rc, err := render.NewRenderFromViper(viperConfig)
	checkError(err, 201)
	// the configured translation is relative to the mask centre
	bounds := mask.Img.Bounds()
	rc.TranslateX += float64(bounds.Dx() / 2)
	rc.TranslateY += float64(bounds.Dy() / 2)

	checkError(rc.RenderImage(img, mask), 300)

	outFile, err := os.Create(*outPNG)
	checkError(err, 400)
	checkError(mask.WritePNG(outFile), 401)
	checkError(outFile.Close(), 402)
	fmt.Println("output file:", *outPNG)

	if len(*outPlotter) > 0 {
		plotterInstance := plotter.NewPlotter()
		checkError(rc.RenderImage(img, plotterInstance), 500)
		checkError(plotterInstance.WriteFile(*outPlotter), 501)
		if rc.PrintStatistic {
			plotterInstance.PrintStatistic()
		}
		fmt.Println("plotter file:", *outPlotter)
	}

	fmt.Println("done in", time.Since(timeStamp))
}

// flashImage builds an image with one flash of ap at the origin
func flashImage(ap *gerbimage.Aperture, sr *srblocks.SRBlock) *gerbimage.Image {
	const apNumber = 10
	img := gerbimage.NewImage()
	img.SetAperture(apNumber, ap)
	layer := img.AddLayer(gerbimage.NewLayer("flash", PolTypeDark))
	layer.StepRep = sr
	img.AddNet(&gerbimage.Net{
		Start:         *xy.NewXY(0, 0),
		Stop:          *xy.NewXY(0, 0),
		Aperture:      apNumber,
		ApertureState: ApStateFlash,
		Interpolation: IPModeLinear,
		Layer:         layer,
	})
	return img
}

func parseList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	retVal := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		retVal[i] = v
	}
	return retVal, nil
}

func parseRepeat(s string) (*srblocks.SRBlock, error) {
	v, err := parseList(s)
	if err != nil {
		return nil, err
	}
	switch len(v) {
	case 0:
		return srblocks.Single(), nil
	case 4:
		return srblocks.NewSRBlock(int(v[0]), int(v[1]), v[2], v[3])
	default:
	}
	return nil, fmt.Errorf("step and repeat needs 4 values, got %d", len(v))
}

func checkError(err error, exitCode int) {
	if err != nil {
		fmt.Println(err)
		glog.Flush()
		os.Exit(exitCode)
	}
}

func returnAppInfo() string {
	return "Aperture macro flash tool\nVersion 0.1.0\n"
}
