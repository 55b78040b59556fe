package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/joystick"
	"github.com/robotalks/carsim/pkg/l1"
	env "github.com/robotalks/carsim/pkg/l1/env/controller"
)

func init() {
	env.SetEndpointKind("joystick", l1.Meta{Description: "Gamepad driving a simulated car"})
	env.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	env := env.NewConfig().MustNewEnv()
	conf := joystick.NewConfig()
	ctl := conf.NewController(env)
	loop := fx.NewLoop().Add(env, ctl)

	if conf.DeviceIndex < 0 {
		glog.Infof("%s waiting for a joystick", env.Config.Info.Ref.Name())
	} else {
		glog.Infof("%s waiting for js%d", env.Config.Info.Ref.Name(), conf.DeviceIndex)
	}
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		glog.Exit(err)
	}
}
