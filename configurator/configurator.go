package configurator

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/viper"
)

const (
	CfgCommonPrintStatistic string = "common.PrintStatistic"

	CfgRenderScale            string = "render.Scale"
	CfgRenderTranslateX       string = "render.TranslateX"
	CfgRenderTranslateY       string = "render.TranslateY"
	CfgRenderPolarity         string = "render.Polarity"
	CfgRenderLegacyMacroScale string = "render.LegacyMacroScale"

	CfgRasterWidth      string = "raster.Width"
	CfgRasterHeight     string = "raster.Height"
	CfgRasterDashLength string = "raster.DashLength"
	CfgRasterGapLength  string = "raster.GapLength"
	CfgRasterArcStep    string = "raster.ArcStep"
)

// image polarity values
const (
	PolarityPositive string = "positive"
	PolarityNegative string = "negative"
)

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("config") // no need to include file extension
	v.AddConfigPath(".")      // set the path of your config file
	v.SetConfigType("toml")

	// diagnostic messages
	v.SetDefault(CfgCommonPrintStatistic, true)

	// pixels per inch
	v.SetDefault(CfgRenderScale, 100.0)
	v.SetDefault(CfgRenderTranslateX, 0.0)
	v.SetDefault(CfgRenderTranslateY, 0.0)
	v.SetDefault(CfgRenderPolarity, PolarityPositive)
	v.SetDefault(CfgRenderLegacyMacroScale, false)

	//
	v.SetDefault(CfgRasterWidth, 1024)
	v.SetDefault(CfgRasterHeight, 768)
	v.SetDefault(CfgRasterDashLength, 4)
	v.SetDefault(CfgRasterGapLength, 4)
	// degrees per segment of a flattened arc
	v.SetDefault(CfgRasterArcStep, 2.0)
}

func ProcessConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("configuration file error, using defaults: %w", err)
	}
	return nil
}

func DiagnosticAllCfgPrint(v *viper.Viper, w io.Writer) {
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintln(w, key, ":", v.Get(key))
	}
	fmt.Fprintln(w)
	return
}
