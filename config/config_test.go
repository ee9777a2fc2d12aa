// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/motionenergy/display"
	"github.com/emer/motionenergy/energy"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.Display.PixelPitch != 0.02 || cfg.Derived.Display.FrameRate != 60 {
		t.Errorf("display %+v", cfg.Derived.Display)
	}
	if len(cfg.Bank.Freqs) != 3 || len(cfg.Bank.Angles) != 4 {
		t.Errorf("bank %+v", cfg.Bank)
	}
	if cfg.Derived.Energy.Border != energy.BorderZero || cfg.Derived.Energy.Method != energy.ConvAuto {
		t.Errorf("energy %+v", cfg.Derived.Energy)
	}
	gr := cfg.Grating()
	if gr.Freq != 0.5 || gr.Speed != 0.5 || gr.Duration != 2 || gr.SizeX != 5 {
		t.Errorf("grating %+v", gr)
	}
	if gp := cfg.GaborParams(); gp.SigmaFactor != 0.5 || gp.NSigmas != 3 {
		t.Errorf("gabor %+v", gp)
	}
}

func TestOverlay(t *testing.T) {
	path := writeFile(t, `
display:
  pixel_pitch: 0
energy:
  border: BorderReflect
  method: ConvFFT
stimulus:
  kind: plaid
  phase: 1.5
  components:
    - angle: 135
      freq: 1
      speed: 1
      amplitude: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	geo := display.Geom{}
	geo.Defaults()
	pitch, dpi, err := geo.PixelPitch()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cfg.Derived.Display.PixelPitch-pitch) > 1e-12 || cfg.Derived.DPI != dpi {
		t.Errorf("derived pitch %v dpi %d, want %v %d", cfg.Derived.Display.PixelPitch, cfg.Derived.DPI, pitch, dpi)
	}
	if cfg.Derived.Energy.Border != energy.BorderReflect || cfg.Derived.Energy.Method != energy.ConvFFT {
		t.Errorf("energy %+v", cfg.Derived.Energy)
	}
	// untouched fields keep their defaults
	if cfg.Stimulus.Freq != 0.5 || cfg.Stimulus.Phase != 1.5 {
		t.Errorf("stimulus %+v", cfg.Stimulus)
	}
	grs := cfg.Gratings()
	if len(grs) != 2 || grs[1].Angle != 135 || grs[1].SizeX != 5 || grs[1].Duration != 2 {
		t.Errorf("plaid gratings %+v", grs)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"border", "energy:\n  border: Mirror\n"},
		{"method", "energy:\n  method: Fast\n"},
		{"border sentinel", "energy:\n  border: BorderModesN\n"},
		{"method sentinel", "energy:\n  method: ConvMethodsN\n"},
		{"kind", "stimulus:\n  kind: noise\n"},
		{"pitch", "display:\n  pixel_pitch: -1\n"},
		{"geometry", "display:\n  pixel_pitch: 0\n  distance_cm: 0\n"},
		{"yaml", "display: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWriteYAML(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Stimulus.Angle = 90
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Stimulus.Angle != 90 || back.Energy.Border != cfg.Energy.Border {
		t.Errorf("round trip %+v", back.Stimulus)
	}
}
