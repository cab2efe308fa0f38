package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/serial"
)

func printPorts(cmd *cobra.Command, ports []serial.Port) {
	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "no serial devices found")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEVICE\tDRIVER")
	for _, p := range ports {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Device, p.Driver)
	}
	_ = w.Flush()
}

func printJobResult(cmd *cobra.Command, n int, job batchJob, st *lib.ProcessStatus, captured int) {
	state := lib.ProcessStateUnspecified
	code := "-"
	if st != nil {
		state = st.State
		if st.ExitCode != nil {
			code = fmt.Sprintf("%d", *st.ExitCode)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "job %d: %s  state=%s exit=%s output=%dB\n", n, job.Command, state, code, captured)
}
