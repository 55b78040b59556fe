package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"
	"gonum.org/v1/plot/vg"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1"
	env "github.com/robotalks/carsim/pkg/l1/env/controller"
	"github.com/robotalks/carsim/pkg/sim/bots/car"
	"github.com/robotalks/carsim/pkg/sim/telemetry"
	"github.com/robotalks/carsim/pkg/sim/visualization/see"
)

var (
	frameRate   = 60.0
	visualize   bool
	recordCSV   string
	recordPNG   string
	recordLimit = 60 * 60 * 10
)

func init() {
	env.SetEndpointKind("car", l1.Meta{Description: "Simulation: car"})
	env.SetupFlags()
	see.SetupFlags()
	car.SetupFlags()
	flag.Float64Var(&frameRate, "fps", frameRate, "Frame rate")
	flag.BoolVar(&visualize, "see", visualize, "Write visualization messages to stdout")
	flag.StringVar(&recordCSV, "record-csv", recordCSV, "Save telemetry as CSV on exit")
	flag.StringVar(&recordPNG, "record-png", recordPNG, "Save telemetry charts as PNG on exit")
	flag.IntVar(&recordLimit, "record-limit", recordLimit, "Max telemetry samples kept")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	env := env.NewConfig().MustNewEnv()
	bot, err := car.NewConfig().NewController(env)
	if err != nil {
		glog.Exitf("create car: %v", err)
	}
	loop := fx.NewLoop().WithFrameRate(frameRate).Add(env, bot)
	if visualize {
		loop.Add(see.NewConfig().NewAdapter().Subscribe(bot))
	}
	var rec *telemetry.Recorder
	if recordCSV != "" || recordPNG != "" {
		rec = telemetry.NewRecorder(bot)
		rec.Limit = recordLimit
		loop.Add(rec)
	}

	glog.Infof("%s running, %d gears, tire model %s",
		env.Config.Info.Ref.Name(), bot.Caps().Gears, bot.Caps().TireModel)
	err = fx.NewRunner().HandleSignals().Go(loop).Wait()

	if rec != nil {
		samples := rec.Samples()
		if recordCSV != "" {
			if err := telemetry.SaveCSV(recordCSV, samples); err != nil {
				glog.Errorf("save %s: %v", recordCSV, err)
			}
		}
		if recordPNG != "" {
			if err := telemetry.SavePNG(recordPNG, samples, 8*vg.Inch, 10*vg.Inch); err != nil {
				glog.Errorf("save %s: %v", recordPNG, err)
			}
		}
	}
	if err != nil {
		glog.Exit(err)
	}
}
