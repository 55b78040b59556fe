package car

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/carsim/pkg/cli/sh"
	"github.com/robotalks/carsim/pkg/l1/msgs"
)

// ParseDrive builds VehicleDrive from held inputs: throttle (t),
// brake (b), left (l), right (r), boost (x). No input releases all.
func ParseDrive(args []string) (*msgs.VehicleDrive, error) {
	var msg msgs.VehicleDrive
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "throttle", "t":
			msg.Throttle = true
		case "brake", "b":
			msg.Brake = true
		case "left", "l":
			msg.Steer = 1
		case "right", "r":
			msg.Steer = -1
		case "boost", "x":
			msg.Boost = true
		case "none", "-":
		default:
			return nil, fmt.Errorf("unknown input %q", arg)
		}
	}
	return &msg, nil
}

// ParseShift parses a gear: N or n for neutral, +N/-N relative to
// the current gear, or the absolute gear number.
func ParseShift(arg string) (*msgs.VehicleShift, error) {
	if arg == "n" || arg == "N" {
		return &msgs.VehicleShift{}, nil
	}
	gear, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid GEAR %q", arg)
	}
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	return &msgs.VehicleShift{Gear: int32(gear), Relative: relative}, nil
}

// ParseIgnition parses on/off.
func ParseIgnition(arg string) (*msgs.VehicleIgnition, error) {
	switch strings.ToLower(arg) {
	case "on", "start", "1":
		return &msgs.VehicleIgnition{On: true}, nil
	case "off", "stop", "0":
		return &msgs.VehicleIgnition{}, nil
	}
	return nil, fmt.Errorf("invalid ignition %q, on or off expected", arg)
}

var (
	// CapsCmd exposes VehicleCapsQuery command.
	CapsCmd = ishell.Cmd{
		Name:    "car.caps",
		Aliases: []string{"caps"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.VehicleCapsQuery{})
		}),
	}

	// DriveCmd exposes VehicleDrive command.
	DriveCmd = ishell.Cmd{
		Name:    "car.drive",
		Aliases: []string{"drive"},
		Help:    "[throttle|t] [brake|b] [left|l|right|r] [boost|x]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			msg, err := ParseDrive(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// ShiftCmd exposes VehicleShift command.
	ShiftCmd = ishell.Cmd{
		Name:    "car.shift",
		Aliases: []string{"shift"},
		Help:    "GEAR|+N|-N|n",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("GEAR required"))
				return
			}
			msg, err := ParseShift(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// IgnitionCmd exposes VehicleIgnition command.
	IgnitionCmd = ishell.Cmd{
		Name:    "car.ignition",
		Aliases: []string{"ign"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			arg := "on"
			if len(c.Args) > 0 {
				arg = c.Args[0]
			}
			msg, err := ParseIgnition(arg)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// ResetCmd exposes VehicleReset command.
	ResetCmd = ishell.Cmd{
		Name:    "car.reset",
		Aliases: []string{"reset"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.VehicleReset{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&CapsCmd,
		&DriveCmd,
		&ShiftCmd,
		&IgnitionCmd,
		&ResetCmd,
	)
}
