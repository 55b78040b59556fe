package joystick

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/carsim/pkg/cli/sh"
	"github.com/robotalks/carsim/pkg/joystick/msgs"
	"github.com/robotalks/carsim/pkg/l1"
)

var (
	// JoystickStatusCmd exposes JoystickStatusQuery command.
	JoystickStatusCmd = ishell.Cmd{
		Name:    "js.status",
		Aliases: []string{"jss"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.JoystickStatusQuery{})
		}),
	}

	// JoystickConnectCmd exposes JoystickConnect command. Without
	// arguments a car is discovered and selected.
	JoystickConnectCmd = ishell.Cmd{
		Name:    "js.connect",
		Aliases: []string{"jsc"},
		Help:    "[KIND [ID [REGISTRY_URL]]]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			var msg msgs.JoystickConnect
			if len(c.Args) >= 2 {
				msg.Kind, msg.ID = c.Args[0], c.Args[1]
				if len(c.Args) > 2 {
					msg.RegistryURL = c.Args[2]
				}
			} else {
				kind := "car"
				if len(c.Args) == 1 {
					kind = c.Args[0]
				}
				filter := func(info l1.Info) bool {
					return info.Ref.Kind == kind
				}
				_, info, err := sh.ShellFrom(c).SelectEndpoint(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no vehicle discovered"))
					return
				}
				msg.Kind, msg.ID = info.Ref.Kind, info.Ref.ID
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// JoystickDisconnectCmd detaches the joystick.
	JoystickDisconnectCmd = ishell.Cmd{
		Name:    "js.disconnect",
		Aliases: []string{"jsd"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.JoystickConnect{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&JoystickStatusCmd,
		&JoystickConnectCmd,
		&JoystickDisconnectCmd,
	)
}
