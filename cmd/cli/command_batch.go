package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/fileutil"
	"github.com/streamexec/streamexec/pkg/lib/runner"
)

// batchFile is the TOML shape consumed by the batch command.
type batchFile struct {
	Job []batchJob `toml:"job"`
}

type batchJob struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Dir     string   `toml:"dir"`
	Stdin   string   `toml:"stdin"`
}

func parseBatchFile(data []byte) (batchFile, error) {
	var bf batchFile
	if err := toml.Unmarshal(data, &bf); err != nil {
		return bf, fmt.Errorf("batch file parse failed: %w", err)
	}
	if len(bf.Job) == 0 {
		return bf, errors.New("batch file defines no [[job]] entries")
	}
	for i, j := range bf.Job {
		if j.Command == "" {
			return bf, fmt.Errorf("job %d: command is required", i+1)
		}
	}
	return bf, nil
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file.toml>",
		Short: "Run every job in a TOML batch file and report exit codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfig)
			if err != nil {
				return err
			}

			text, err := fileutil.ReadText(args[0])
			if err != nil {
				return err
			}
			bf, err := parseBatchFile([]byte(text))
			if err != nil {
				return err
			}

			r := runner.NewRunner(
				runner.WithPollInterval(time.Duration(cfg.PollIntervalMS)*time.Millisecond),
				runner.WithLogger(logger),
			)

			ids := make([]string, 0, len(bf.Job))
			for i, job := range bf.Job {
				res, err := r.StartIn(job.Dir, job.Command, job.Args...)
				if err != nil {
					return fmt.Errorf("job %d: %w", i+1, err)
				}
				if job.Stdin != "" {
					if err := r.Write(res.ID, []byte(job.Stdin)); err != nil {
						logger.Warn().Str("id", res.ID).Err(err).Msg("stdin write failed")
					}
				}
				_ = r.CloseInput(res.ID)
				ids = append(ids, res.ID)
			}

			for _, e := range r.List() {
				logger.Debug().Str("id", e.ID).
					Str("command", e.Result.Command.Command).
					Str("state", e.Result.Status.State.String()).
					Msg("job registered")
			}

			failed := 0
			for i, id := range ids {
				st := waitForExit(r, id)
				// Drained to closure below, so the subscription never needs
				// cancelling.
				out, _, err := r.Output(id)
				if err != nil {
					return err
				}
				captured := 0
				for chunk := range out {
					captured += len(chunk)
				}
				printJobResult(cmd, i+1, bf.Job[i], st, captured)
				if st == nil || st.ExitCode == nil || *st.ExitCode != 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(ids))
			}
			return nil
		},
	}
	return cmd
}

// waitForExit blocks until the runner reports the session stopped.
func waitForExit(r *runner.Runner, id string) *lib.ProcessStatus {
	for {
		sr, err := r.Status(id)
		if err != nil {
			return nil
		}
		if sr.Status.State == lib.ProcessStateStopped {
			return sr.Status
		}
		time.Sleep(20 * time.Millisecond)
	}
}
