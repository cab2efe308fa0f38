package main

import (
	"github.com/spf13/cobra"

	"github.com/streamexec/streamexec/pkg/lib/serial"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List serial devices discovered from system metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.List()
			if err != nil {
				return err
			}
			printPorts(cmd, ports)
			return nil
		},
	}
}
