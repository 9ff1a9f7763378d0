package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/msw"
	"github.com/san-kum/mswell/internal/numerr"
)

const (
	DefaultTopPressure = 5.0e6
	DefaultTolerance   = 1e-6
	DefaultMaxNewton   = 30
	DefaultSegments    = 10
	DefaultLength      = 100.0
	DefaultDiameter    = 0.1
	DefaultRoughness   = 1e-5
	DefaultInflow      = 1.0
	DefaultOutputDir   = "runs"
)

type Config struct {
	Solver    SolverConfig `yaml:"solver"`
	Wells     []WellConfig `yaml:"wells"`
	OutputDir string       `yaml:"output_dir"`
}

type SolverConfig struct {
	Method    string  `yaml:"method"`
	Tolerance float64 `yaml:"tolerance"`
	MaxNewton int     `yaml:"max_newton"`
}

type WellConfig struct {
	Name        string        `yaml:"name"`
	TopPressure float64       `yaml:"top_pressure"`
	Segments    []msw.Segment `yaml:"segments"`
}

// DefaultFluid is a light oil with 30% water.
func DefaultFluid() msw.Fluid {
	return msw.Fluid{
		WaterFraction:  0.3,
		OilFraction:    0.7,
		WaterDensity:   1000,
		OilDensity:     850,
		WaterViscosity: 1e-3,
		OilViscosity:   4e-3,
	}
}

// DefaultSegment is a vertical pipe segment with a unit inflow.
func DefaultSegment() msw.Segment {
	return msw.Segment{
		Kind:       msw.Pipe,
		Length:     DefaultLength,
		DeltaDepth: DefaultLength,
		Diameter:   DefaultDiameter,
		Roughness:  DefaultRoughness,
		Inflow:     DefaultInflow,
		Fluid:      DefaultFluid(),
	}
}

// Uniform returns n copies of seg named seg-00, seg-01, ...
func Uniform(n int, seg msw.Segment) []msw.Segment {
	segs := make([]msw.Segment, n)
	for i := range segs {
		segs[i] = seg
		segs[i].Name = fmt.Sprintf("seg-%02d", i)
		if seg.SICD != nil {
			icd := *seg.SICD
			segs[i].SICD = &icd
		}
		if seg.Valve != nil {
			v := *seg.Valve
			segs[i].Valve = &v
		}
	}
	return segs
}

func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Method:    string(msw.Direct),
			Tolerance: DefaultTolerance,
			MaxNewton: DefaultMaxNewton,
		},
		Wells: []WellConfig{{
			Name:        "producer",
			TopPressure: DefaultTopPressure,
			Segments:    Uniform(DefaultSegments, DefaultSegment()),
		}},
		OutputDir: DefaultOutputDir,
	}
}

// Load reads a YAML config on top of the defaults. A file that lists wells
// replaces the default well entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Wells = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, numerr.Wrap(numerr.InvalidConfig, "config", err, "parse %s", path)
	}
	if len(cfg.Wells) == 0 {
		cfg.Wells = DefaultConfig().Wells
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fillDefaults completes SICD segments that leave the device out.
func (c *Config) fillDefaults() {
	for i := range c.Wells {
		for j := range c.Wells[i].Segments {
			seg := &c.Wells[i].Segments[j]
			if seg.Kind == msw.SICD && seg.SICD == nil {
				icd := hydraulics.DefaultSICD()
				seg.SICD = &icd
			}
		}
	}
}

func (c *Config) Options() (msw.Options, error) {
	m, err := msw.ParseMethod(c.Solver.Method)
	if err != nil {
		return msw.Options{}, err
	}
	return msw.Options{Method: m, Tolerance: c.Solver.Tolerance, MaxNewton: c.Solver.MaxNewton}, nil
}

func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.Solver.Tolerance <= 0 {
		return numerr.New(numerr.InvalidConfig, "config", "tolerance must be positive, got %g", c.Solver.Tolerance)
	}
	if c.Solver.MaxNewton < 1 {
		return numerr.New(numerr.InvalidConfig, "config", "max_newton must be at least 1, got %d", c.Solver.MaxNewton)
	}
	if len(c.Wells) == 0 {
		return numerr.New(numerr.InvalidConfig, "config", "no wells")
	}

	seen := make(map[string]bool, len(c.Wells))
	for _, w := range c.Wells {
		if w.Name == "" {
			return numerr.New(numerr.InvalidConfig, "config", "well without a name")
		}
		if seen[w.Name] {
			return numerr.New(numerr.InvalidConfig, "config", "duplicate well %q", w.Name)
		}
		seen[w.Name] = true
		if len(w.Segments) == 0 {
			return numerr.New(numerr.InvalidConfig, "config", "well %q has no segments", w.Name)
		}
		for _, s := range w.Segments {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("well %s: %w", w.Name, err)
			}
		}
	}
	return nil
}

// BuildWells validates the config and returns one solver per well.
func (c *Config) BuildWells() ([]*msw.Well, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	wells := make([]*msw.Well, 0, len(c.Wells))
	for _, wc := range c.Wells {
		w, err := msw.NewWell(wc.Name, wc.TopPressure, wc.Segments, opts)
		if err != nil {
			return nil, err
		}
		wells = append(wells, w)
	}
	return wells, nil
}
