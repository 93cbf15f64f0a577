package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotReturns saves a line plot of the episodic returns to path
func plotReturns(path, name string, returns []float64) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	points := make(plotter.XYs, len(returns))
	for i, g := range returns {
		points[i] = plotter.XY{X: float64(i), Y: g}
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("plotReturns: %v", err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotReturns: %v", err)
	}
	return nil
}
