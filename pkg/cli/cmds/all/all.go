// Package all registers all shell commands.
package all

import (
	// car commands.
	_ "github.com/robotalks/carsim/pkg/cli/cmds/car"
	// joystick commands.
	_ "github.com/robotalks/carsim/pkg/cli/cmds/joystick"
)
