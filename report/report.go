// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report exports energy tensors and heatmaps as tables and CSV.
package report

import (
	"fmt"
	"io"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/motionenergy/energy"
	"github.com/emer/motionenergy/gabor"
	"github.com/gocarina/gocsv"
)

// EnergyTable arranges a [Frame, Filter] energy tensor as a table with one row
// per frame: a Frame column followed by one column per bank channel, named by
// the channel (e.g., F0.50_A45).
func EnergyTable(e *etensor.Float64, bk *gabor.Bank) (*etable.Table, error) {
	if e == nil || e.NumDims() != 2 {
		return nil, fmt.Errorf("energy must be [Frame, Filter]: %w", energy.ErrShape)
	}
	if bk == nil {
		return nil, fmt.Errorf("nil bank: %w", energy.ErrShape)
	}
	nf, nfilt := e.Dim(0), e.Dim(1)
	if nfilt != bk.Len() {
		return nil, fmt.Errorf("energy has %d filters, bank has %d channels: %w", nfilt, bk.Len(), energy.ErrShape)
	}
	sch := etable.Schema{
		{Name: "Frame", Type: etensor.INT64, CellShape: nil, DimNames: nil},
	}
	for _, ch := range bk.Chans {
		sch = append(sch, etable.Column{Name: ch.String(), Type: etensor.FLOAT64, CellShape: nil, DimNames: nil})
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", "MotionEnergy")
	dt.SetMetaData("desc", "spatially pooled quadrature energy per frame and channel")
	dt.SetFromSchema(sch, nf)
	for f := 0; f < nf; f++ {
		dt.Cols[0].SetFloat1D(f, float64(f))
		for ci := 0; ci < nfilt; ci++ {
			dt.Cols[ci+1].SetFloat1D(f, e.Values[f*nfilt+ci])
		}
	}
	return dt, nil
}

// WriteEnergy writes the EnergyTable of e as comma separated values with headers
func WriteEnergy(w io.Writer, e *etensor.Float64, bk *gabor.Bank) error {
	dt, err := EnergyTable(e, bk)
	if err != nil {
		return err
	}
	return dt.WriteCSV(w, etable.Comma, etable.Headers)
}

// HeatmapRecord is one cell of a [Freq, Angle] heatmap
type HeatmapRecord struct {
	Freq   float64 `csv:"freq"`
	Angle  float64 `csv:"angle"`
	Energy float64 `csv:"energy"`
}

// HeatmapRecords flattens a [Freq, Angle] heatmap into records, frequency-major
func HeatmapRecords(hm *etensor.Float64, freqs, angles []float64) ([]HeatmapRecord, error) {
	if hm == nil || hm.NumDims() != 2 || hm.Dim(0) != len(freqs) || hm.Dim(1) != len(angles) {
		return nil, fmt.Errorf("heatmap must be [%d Freq, %d Angle]: %w", len(freqs), len(angles), energy.ErrShape)
	}
	recs := make([]HeatmapRecord, 0, len(freqs)*len(angles))
	for i, f := range freqs {
		for j, a := range angles {
			recs = append(recs, HeatmapRecord{Freq: f, Angle: a, Energy: hm.Values[i*len(angles)+j]})
		}
	}
	return recs, nil
}

// WriteHeatmap writes the heatmap as freq, angle, energy CSV records
func WriteHeatmap(w io.Writer, hm *etensor.Float64, freqs, angles []float64) error {
	recs, err := HeatmapRecords(hm, freqs, angles)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(recs, w); err != nil {
		return fmt.Errorf("writing heatmap: %w", err)
	}
	return nil
}
