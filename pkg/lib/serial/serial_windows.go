//go:build windows

package serial

import (
	"sort"

	"golang.org/x/sys/windows/registry"
)

const serialCommKey = `HARDWARE\DEVICEMAP\SERIALCOMM`

// list reads the SERIALCOMM registry map: value names are the internal
// device identifiers, value data the COM port names.
func list() ([]Port, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, serialCommKey, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			// No serial hardware at all.
			return nil, nil
		}
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil, err
	}

	var ports []Port
	for _, name := range names {
		com, _, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		ports = append(ports, Port{Name: com, Device: com, Driver: name})
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}
