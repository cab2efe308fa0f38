// Package serial enumerates serial devices from filesystem metadata; it
// never opens the devices themselves.
package serial

// Port describes one discovered serial device.
type Port struct {
	// Name is the platform name of the port (e.g. "ttyUSB0", "COM3").
	Name string

	// Device is the path or identifier used to open the port.
	Device string

	// Driver is the kernel driver bound to the port, where known.
	Driver string
}

// List returns the serial ports present on this machine, sorted by name.
func List() ([]Port, error) {
	return list()
}
