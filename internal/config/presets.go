package config

import (
	"sort"

	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/msw"
)

func vertical() *Config {
	return DefaultConfig()
}

// lateral is a horizontal producer completed with spiral ICDs.
func lateral(waterFraction float64) *Config {
	cfg := DefaultConfig()

	seg := DefaultSegment()
	seg.DeltaDepth = 0
	seg.Length = 50
	seg.Inflow = 0.5
	seg.Fluid.WaterFraction = waterFraction
	seg.Fluid.OilFraction = 1 - waterFraction
	icd := hydraulics.DefaultSICD()
	seg.Kind = msw.SICD
	seg.SICD = &icd

	heel := DefaultSegment()
	heel.Name = "build"
	heel.Inflow = 0
	heel.Fluid = seg.Fluid

	cfg.Wells[0].Name = "lateral"
	cfg.Wells[0].Segments = append([]msw.Segment{heel}, Uniform(12, seg)...)
	return cfg
}

func valved() *Config {
	cfg := DefaultConfig()
	seg := DefaultSegment()
	seg.Kind = msw.Valve
	seg.Valve = &msw.ValveSpec{Area: 5e-4, Cv: 0.7}
	cfg.Wells[0].Name = "valved"
	cfg.Wells[0].Segments = Uniform(8, seg)
	return cfg
}

func field() *Config {
	cfg := DefaultConfig()
	cfg.Wells = nil
	for _, p := range []*Config{vertical(), lateral(0.3), valved()} {
		cfg.Wells = append(cfg.Wells, p.Wells...)
	}
	return cfg
}

var Presets = map[string]func() *Config{
	"vertical":      vertical,
	"sicd":          func() *Config { return lateral(0.3) },
	"sicd-emulsion": func() *Config { return lateral(0.5) },
	"sicd-watered":  func() *Config { return lateral(0.9) },
	"valve":         valved,
	"field":         field,
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
