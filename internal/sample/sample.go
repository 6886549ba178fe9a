// Package sample generates synthetic sensor tables for trying out the
// cleaning pipeline without real data.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"tsclean/internal/dataset"
	"tsclean/internal/timealign"
)

// Generate builds a table of synthetic sensor readings: a timestamp column
// on a 2-minute grid plus Temperature, Humidity, and Pressure channels.
// Roughly 3% of numeric cells are spiked to an outlier magnitude and 2% are
// left blank, so every pipeline stage has something to do. The same seed
// yields the same table.
func Generate(rows int, seed int64) (*dataset.Table, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("generating sample: rows must be positive, got %d", rows)
	}
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]dataset.Value, rows)
	temps := make([]dataset.Value, rows)
	humidity := make([]dataset.Value, rows)
	pressure := make([]dataset.Value, rows)

	for i := 0; i < rows; i++ {
		ts := start.Add(time.Duration(i) * timealign.DefaultInterval)
		// Jitter a few timestamps off the grid so snapping has work.
		if rng.Float64() < 0.05 {
			ts = ts.Add(time.Duration(rng.Intn(21)-10) * time.Second)
		}
		timestamps[i] = dataset.TextValue(ts.Format("2006-01-02 15:04:05"))

		temps[i] = sampleCell(rng, 22, 3, 500)
		humidity[i] = sampleCell(rng, 55, 10, 400)
		pressure[i] = sampleCell(rng, 1013, 5, 2000)
	}

	return dataset.New([]dataset.Column{
		{Name: "Timestamp", Cells: timestamps},
		{Name: "Temperature", Cells: temps},
		{Name: "Humidity", Cells: humidity},
		{Name: "Pressure", Cells: pressure},
	})
}

func sampleCell(rng *rand.Rand, mean, std, spike float64) dataset.Value {
	r := rng.Float64()
	switch {
	case r < 0.02:
		return dataset.Missing()
	case r < 0.05:
		return dataset.NumberValue(spike)
	default:
		return dataset.NumberValue(mean + rng.NormFloat64()*std)
	}
}
