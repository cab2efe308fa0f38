//go:build !linux && !windows

package serial

import (
	"path/filepath"
	"sort"
	"strings"
)

// list falls back to the BSD/darwin device naming convention: callout
// devices show up as /dev/cu.*, callin devices as /dev/tty.*.
func list() ([]Port, error) {
	matches, err := filepath.Glob("/dev/cu.*")
	if err != nil {
		return nil, err
	}

	var ports []Port
	for _, dev := range matches {
		ports = append(ports, Port{
			Name:   strings.TrimPrefix(filepath.Base(dev), "cu."),
			Device: dev,
		})
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}
