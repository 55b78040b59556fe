package main

import (
	"context"
	"flag"

	"github.com/golang/glog"
	"gonum.org/v1/plot/vg"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim/bots/car"
	"github.com/robotalks/carsim/pkg/sim/scenario"
	"github.com/robotalks/carsim/pkg/sim/telemetry"
)

var (
	scenarioFile string
	csvFile      string
	pngFile      = "carplot.png"
	chartWidth   = 8.0
	chartHeight  = 10.0
)

func init() {
	car.SetupFlags()
	flag.StringVar(&scenarioFile, "scenario", scenarioFile, "Scenario YAML file, built-in scenario if empty")
	flag.StringVar(&csvFile, "csv", csvFile, "Save telemetry as CSV")
	flag.StringVar(&pngFile, "png", pngFile, "Save telemetry charts as PNG, empty to skip")
	flag.Float64Var(&chartWidth, "chart-w", chartWidth, "Chart width (inch)")
	flag.Float64Var(&chartHeight, "chart-h", chartHeight, "Chart height (inch)")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	s := scenario.Default()
	if scenarioFile != "" {
		var err error
		if s, err = scenario.Load(scenarioFile); err != nil {
			glog.Exit(err)
		}
	}
	v, err := car.NewConfig().NewVehicle()
	if err != nil {
		glog.Exit(err)
	}

	rec := telemetry.NewRecorder(v)
	err = fx.NewRunner().HandleSignals().Go(fx.RunnableFunc(func(ctx context.Context) error {
		return s.Run(ctx, v, rec.Record)
	})).Wait()
	if err != nil {
		glog.Exit(err)
	}
	samples := rec.Samples()
	if len(samples) == 0 {
		glog.Exit(telemetry.ErrNoSamples)
	}
	last := samples[len(samples)-1]
	glog.Infof("%s: %d frames, %v, gear %d, speed %.2f m/s, at (%.2f, %.2f)",
		s.Name, len(samples), last.Time, last.Gear, last.Speed, last.Position.X, last.Position.Y)

	var errs fx.AggregatedError
	if csvFile != "" {
		errs.Add(telemetry.SaveCSV(csvFile, samples))
	}
	if pngFile != "" {
		errs.Add(telemetry.SavePNG(pngFile, samples, vg.Length(chartWidth)*vg.Inch, vg.Length(chartHeight)*vg.Inch))
	}
	if err := errs.Aggregate(); err != nil {
		glog.Exit(err)
	}
}
