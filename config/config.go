// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the parameters of a motion energy run from YAML,
// layered over embedded defaults, and converts them into the parameter
// structs of the pipeline packages.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/emer/motionenergy/display"
	"github.com/emer/motionenergy/energy"
	"github.com/emer/motionenergy/gabor"
	"github.com/emer/motionenergy/stimulus"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Stimulus kinds
const (
	KindDrifting     = "drifting"
	KindCounterphase = "counterphase"
	KindPlaid        = "plaid"
)

// Config holds all run parameters
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Stimulus StimulusConfig `yaml:"stimulus"`
	Bank     BankConfig     `yaml:"bank"`
	Energy   EnergyConfig   `yaml:"energy"`
	Output   OutputConfig   `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// DisplayConfig gives either the pixel pitch directly or the monitor geometry it derives from
type DisplayConfig struct {
	FrameRate  float64 `yaml:"frame_rate"`
	PixelPitch float64 `yaml:"pixel_pitch"` // deg / px, 0 = from geometry
	DistanceCm float64 `yaml:"distance_cm"`
	ResX       int     `yaml:"res_x"`
	ResY       int     `yaml:"res_y"`
	DiagonalIn float64 `yaml:"diagonal_in"`
}

// GratingConfig describes one sinusoidal grating
type GratingConfig struct {
	Speed     float64 `yaml:"speed"`
	SizeX     float64 `yaml:"size_x"`
	SizeY     float64 `yaml:"size_y"`
	Angle     float64 `yaml:"angle"`
	Phase     float64 `yaml:"phase"`
	Freq      float64 `yaml:"freq"`
	Amplitude float64 `yaml:"amplitude"`
	Duration  float64 `yaml:"duration"`
}

// StimulusConfig is the main grating plus, for plaids, further components
type StimulusConfig struct {
	Kind          string `yaml:"kind"`
	GratingConfig `yaml:",inline"`
	Components    []GratingConfig `yaml:"components"`
}

// BankConfig lists the filter bank channels
type BankConfig struct {
	Freqs       []float64 `yaml:"frequencies"`
	Angles      []float64 `yaml:"orientations"`
	SigmaFactor float64   `yaml:"sigma_factor"`
	NSigmas     float64   `yaml:"n_sigmas"`
}

// EnergyConfig selects border handling, method and parallelism
type EnergyConfig struct {
	Border     string `yaml:"border"`
	Method     string `yaml:"method"`
	Workers    int    `yaml:"workers"`
	FFTMinSize int    `yaml:"fft_min_size"`
}

// OutputConfig controls what a run writes
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	PNG      bool   `yaml:"png"`
	PNGEvery int    `yaml:"png_every"` // render every n'th stimulus frame
	PNGScale int    `yaml:"png_scale"`
}

// DerivedConfig holds values computed from the loaded config
type DerivedConfig struct {
	Display display.Params // resolved frame rate and pixel pitch
	DPI     int            // monitor dots per inch, 0 if the pitch was given directly
	Energy  energy.Params  // resolved enums
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived resolves the pixel pitch and the energy enums
func (c *Config) computeDerived() error {
	dc := &c.Display
	c.Derived.Display = display.Params{FrameRate: dc.FrameRate, PixelPitch: dc.PixelPitch}
	c.Derived.DPI = 0
	if dc.PixelPitch == 0 {
		geo := display.Geom{DistanceCm: dc.DistanceCm, ResX: dc.ResX, ResY: dc.ResY, DiagonalIn: dc.DiagonalIn}
		pitch, dpi, err := geo.PixelPitch()
		if err != nil {
			return fmt.Errorf("deriving pixel pitch: %w", err)
		}
		c.Derived.Display.PixelPitch = pitch
		c.Derived.DPI = dpi
	}
	if err := c.Derived.Display.Validate(); err != nil {
		return err
	}

	ep := &c.Derived.Energy
	ep.Defaults()
	if err := ep.Border.FromString(c.Energy.Border); err != nil {
		return fmt.Errorf("energy.border: %w", err)
	}
	if err := ep.Method.FromString(c.Energy.Method); err != nil {
		return fmt.Errorf("energy.method: %w", err)
	}
	// FromString also accepts the N sentinels
	if ep.Border >= energy.BorderModesN {
		return fmt.Errorf("energy.border %q is not a border mode: %w", c.Energy.Border, display.ErrDomain)
	}
	if ep.Method >= energy.ConvMethodsN {
		return fmt.Errorf("energy.method %q is not a method: %w", c.Energy.Method, display.ErrDomain)
	}
	ep.Workers = c.Energy.Workers
	ep.FFTMinSize = c.Energy.FFTMinSize

	switch c.Stimulus.Kind {
	case KindDrifting, KindCounterphase, KindPlaid:
	default:
		return fmt.Errorf("stimulus.kind %q must be %s, %s or %s", c.Stimulus.Kind, KindDrifting, KindCounterphase, KindPlaid)
	}
	return nil
}

// grating converts gc to a stimulus.Grating
func (gc *GratingConfig) grating() stimulus.Grating {
	return stimulus.Grating{
		Speed:     gc.Speed,
		SizeX:     gc.SizeX,
		SizeY:     gc.SizeY,
		Angle:     gc.Angle,
		Phase:     gc.Phase,
		Freq:      gc.Freq,
		Amplitude: gc.Amplitude,
		Duration:  gc.Duration,
	}
}

// Grating returns the main stimulus grating
func (c *Config) Grating() stimulus.Grating {
	return c.Stimulus.GratingConfig.grating()
}

// Gratings returns the main grating followed by the plaid components, which
// take their size and duration from the main grating
func (c *Config) Gratings() []stimulus.Grating {
	grs := []stimulus.Grating{c.Grating()}
	for i := range c.Stimulus.Components {
		gr := c.Stimulus.Components[i].grating()
		gr.SizeX, gr.SizeY, gr.Duration = grs[0].SizeX, grs[0].SizeY, grs[0].Duration
		grs = append(grs, gr)
	}
	return grs
}

// GaborParams returns the filter rendering parameters
func (c *Config) GaborParams() gabor.Params {
	return gabor.Params{SigmaFactor: c.Bank.SigmaFactor, NSigmas: c.Bank.NSigmas}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
