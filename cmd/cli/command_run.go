package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/encoding"
	"github.com/streamexec/streamexec/pkg/lib/runner"
)

func newRunCmd() *cobra.Command {
	var (
		flagDir      string
		flagEncoding string
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command and stream its unbuffered output",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("command to execute is required; use -- to separate CLI flags from the command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfig)
			if err != nil {
				return err
			}
			if flagDir == "" {
				flagDir = cfg.Dir
			}
			if flagEncoding == "" {
				flagEncoding = cfg.Encoding
			}

			r := runner.NewRunner(
				runner.WithPollInterval(time.Duration(cfg.PollIntervalMS)*time.Millisecond),
				runner.WithLogger(logger),
			)

			res, err := r.StartIn(flagDir, args[0], args[1:]...)
			if err != nil {
				return err
			}
			logger.Debug().Str("id", res.ID).Int("pid", res.Pid).Msg("child started")

			out, cancelOut, err := r.Output(res.ID)
			if err != nil {
				return err
			}
			defer cancelOut()

			// Forward piped stdin to the child; a terminal is not forwarded,
			// the child just sees EOF.
			if term.IsTerminal(int(os.Stdin.Fd())) {
				_ = r.CloseInput(res.ID)
			} else {
				go pumpStdin(r, res.ID)
			}

			dec, err := encoding.NewReader(encoding.NewChunkReader(out), flagEncoding)
			if err != nil {
				return err
			}
			// Ends once the child has exited and its backlog is drained.
			if _, err := io.Copy(os.Stdout, dec); err != nil {
				return err
			}

			st, err := r.Status(res.ID)
			if err != nil {
				return err
			}
			if st.Status.ExitCode != nil {
				childExitCode = *st.Status.ExitCode
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDir, "dir", "", "working directory for the child")
	cmd.Flags().StringVar(&flagEncoding, "encoding", "", "child output encoding (utf8, cp1252, cp866, utf16le, utf16be, auto)")
	return cmd
}

// pumpStdin copies the CLI's stdin into the child until EOF, then closes the
// child's stdin so it can observe end of input.
func pumpStdin(r *runner.Runner, id string) {
	defer func() { _ = r.CloseInput(id) }()

	br := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, err := br.Read(buf)
		if n > 0 {
			if werr := r.Write(id, buf[:n]); werr != nil {
				if !errors.Is(werr, lib.ErrBrokenPipe) {
					logger.Warn().Err(werr).Msg("stdin forward failed")
				}
				return
			}
		}
		if err != nil {
			return
		}
	}
}
