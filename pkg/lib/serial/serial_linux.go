//go:build linux

package serial

import (
	"os"
	"path/filepath"
	"sort"
)

const sysClassTTY = "/sys/class/tty"

func list() ([]Port, error) {
	return listFrom(sysClassTTY)
}

// listFrom scans a sysfs tty class directory. Entries without a device/
// subdirectory are virtual consoles, not real ports, and are skipped. The
// bound driver is read from the device/driver symlink when present.
func listFrom(root string) ([]Port, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var ports []Port
	for _, e := range entries {
		devDir := filepath.Join(root, e.Name(), "device")
		if _, err := os.Stat(devDir); err != nil {
			continue
		}

		driver := ""
		if target, err := os.Readlink(filepath.Join(devDir, "driver")); err == nil {
			driver = filepath.Base(target)
		}

		ports = append(ports, Port{
			Name:   e.Name(),
			Device: "/dev/" + e.Name(),
			Driver: driver,
		})
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}
