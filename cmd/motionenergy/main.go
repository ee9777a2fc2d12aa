// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command motionenergy generates a grating stimulus, filters it with a bank of
// quadrature gabor pairs, and writes the per-frame motion energy and the
// frequency x orientation heatmap as CSV.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/config"
	"github.com/emer/motionenergy/energy"
	"github.com/emer/motionenergy/gabor"
	"github.com/emer/motionenergy/render"
	"github.com/emer/motionenergy/report"
	"github.com/emer/motionenergy/stimulus"
)

// options are the command line overrides of the config file
type options struct {
	ConfigPath string
	OutDir     string
	Phase      *float64 // nil = keep config
	PNG        bool
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML run config (empty = use defaults)")
	outDir := flag.String("out", "", "Output directory (empty = use config)")
	phase := flag.Float64("phase", 0, "Stimulus phase in radians, overrides the config when set")
	png := flag.Bool("png", false, "Also render stimulus frames, kernels and the heatmap as PNG")
	verbose := flag.Bool("v", false, "Debug logging, including timing and memory estimates")
	flag.Parse()

	lvl := slog.LevelInfo
	if *verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))

	opts := options{ConfigPath: *configPath, OutDir: *outDir, PNG: *png}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "phase" {
			opts.Phase = phase
		}
	})
	if err := run(opts); err != nil {
		slog.Error("motionenergy failed", "error", err)
		os.Exit(1)
	}
}

// run executes the whole pipeline: config, stimulus, bank, energy, heatmap, output
func run(opts options) error {
	st := time.Now()
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Phase != nil {
		cfg.Stimulus.Phase = *opts.Phase
	}
	if opts.OutDir != "" {
		cfg.Output.Dir = opts.OutDir
	}
	if opts.PNG {
		cfg.Output.PNG = true
	}
	dp := cfg.Derived.Display
	slog.Info("display", "fps", dp.FrameRate, "pitch", dp.PixelPitch, "dpi", cfg.Derived.DPI,
		"spatialNyquist", dp.SpatialNyquist(), "temporalNyquist", dp.TemporalNyquist())

	stim, err := makeStimulus(cfg)
	if err != nil {
		return fmt.Errorf("generating stimulus: %w", err)
	}
	slog.Info("stimulus", "kind", cfg.Stimulus.Kind, "shape", stim.Shapes())

	bk, err := gabor.NewBank(cfg.Bank.Freqs, cfg.Bank.Angles, dp.PixelPitch, cfg.GaborParams())
	if err != nil {
		return fmt.Errorf("building filter bank: %w", err)
	}
	slog.Info("filter bank", "channels", bk.Len(), "maxKernel", bk.MaxSize)

	ep := cfg.Derived.Energy
	en, err := ep.Compute(stim, bk)
	if err != nil {
		return fmt.Errorf("computing energy: %w", err)
	}
	hm, err := energy.Summarize(en, bk.Freqs, bk.Angles)
	if err != nil {
		return err
	}
	for fi, f := range bk.Freqs {
		tc, err := energy.TuningCurve(hm, fi)
		if err != nil {
			return err
		}
		ang, str, err := energy.PopulationVector(tc, bk.Angles, true)
		if err != nil {
			return err
		}
		slog.Info("tuning", "freq", f, "energy", tc, "preferredAngle", ang, "strength", str)
	}

	if err := writeOutputs(cfg, stim, bk, en, hm); err != nil {
		return err
	}
	slog.Info("done", "out", cfg.Output.Dir, "elapsed", time.Since(st))
	return nil
}

func makeStimulus(cfg *config.Config) (*etensor.Float64, error) {
	dp := cfg.Derived.Display
	switch cfg.Stimulus.Kind {
	case config.KindCounterphase:
		return stimulus.Counterphase(cfg.Grating(), dp)
	case config.KindPlaid:
		return stimulus.Plaid(cfg.Gratings(), dp)
	}
	gr := cfg.Grating()
	return gr.Generate(dp)
}

// writeOutputs writes the csv files, a snapshot of the config, and optional PNGs
func writeOutputs(cfg *config.Config, stim *etensor.Float64, bk *gabor.Bank, en, hm *etensor.Float64) error {
	out := cfg.Output.Dir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := cfg.WriteYAML(filepath.Join(out, "config.yaml")); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(out, "energy.csv"), func(f *os.File) error {
		return report.WriteEnergy(f, en, bk)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(out, "heatmap.csv"), func(f *os.File) error {
		return report.WriteHeatmap(f, hm, bk.Freqs, bk.Angles)
	}); err != nil {
		return err
	}
	if !cfg.Output.PNG {
		return nil
	}
	pr := &render.PNG{Dir: filepath.Join(out, "png"), Scale: cfg.Output.PNGScale}
	if err := render.Stimulus(pr, stim, cfg.Output.PNGEvery); err != nil {
		return fmt.Errorf("rendering stimulus: %w", err)
	}
	if err := render.Bank(pr, bk); err != nil {
		return fmt.Errorf("rendering bank: %w", err)
	}
	return pr.Frame("heatmap", hm)
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
