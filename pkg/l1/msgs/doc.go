// Package msgs provides L1 protocol support and all message schemas.
package msgs

// L1 protocol is communicated between the simulated vehicle (L1 controller)
// and whatever drives it remotely (L2: shells, joysticks, monitors),
// and uses hardware-agnostic primitives.
//
// Producer: L1 controller
// Consumer: L2 driver
