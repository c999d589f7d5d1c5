package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/subfix/internal/config"
	"github.com/dshills/subfix/internal/config/watcher"
	"github.com/dshills/subfix/internal/logging"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run corrections whenever the input, configuration or patterns change",
		Long: `Apply the selected operations to <file> and write the result to --output,
then repeat every time the input file, the configuration file or a
configured pattern file changes. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output, _ := cmd.Flags().GetString("output")
			if output == "" || output == "-" {
				return errors.New("watch needs an --output file")
			}
			if sameFile(input, output) {
				return errors.New("--output must differ from the watched file")
			}
			ops, _ := cmd.Flags().GetStringSlice("ops")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			w, err := watcher.New(watcher.WithLogger(s.logger))
			if err != nil {
				return err
			}

			watchFiles := func(cfg *config.Config) error {
				files := []string{input}
				if p := cfg.Path(); p != "" {
					files = append(files, p)
				}
				for _, kind := range config.PatternKinds {
					if f, _ := cfg.Patterns.File(kind); f != "" {
						files = append(files, f)
					}
				}
				for _, f := range files {
					if err := w.Watch(f); err != nil {
						return err
					}
				}
				return nil
			}
			if err := watchFiles(s.cfg); err != nil {
				w.Close()
				return err
			}

			rerun := func() {
				// Settings and tables are reread on every run.
				cur, err := newSession(cmd)
				if err != nil {
					logging.FromContext(cmd.Context()).Error("loading settings", "err", err)
					return
				}
				if err := watchFiles(cur.cfg); err != nil {
					cur.logger.Warn("watching pattern files", "err", err)
				}
				reports, err := pipeline(cmd, cur, input, output, ops)
				if err != nil {
					cur.logger.Error("processing", "file", input, "err", err)
					return
				}
				if err := cur.print(cmd.OutOrStdout(), reports); err != nil {
					cur.logger.Error("reporting", "err", err)
				}
			}

			rerun()
			w.OnChange(func(e watcher.Event) {
				if sameFile(e.Path, output) {
					return
				}
				s.logger.Info("file changed", "path", e.Path, "op", e.Op.String())
				rerun()
			})
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringSlice("ops", []string{"correct"}, "Operations to apply, in order")
	cmd.Flags().StringP("output", "o", "", "Output file")
	return cmd
}

// pipeline applies the named operations in order and writes the result.
func pipeline(cmd *cobra.Command, s *session, input, output string, names []string) ([]report, error) {
	subs, eng, err := s.load(input)
	if err != nil {
		return nil, err
	}

	reports := make([]report, 0, len(names))
	for _, name := range names {
		st, done, err := newStep(cmd, s, name)
		if err != nil {
			return nil, err
		}
		table, err := s.table(st.kind, "")
		if err != nil {
			done()
			return nil, err
		}
		res, err := st.run(eng, nil, s.doc, table)
		done()
		if err != nil {
			return nil, err
		}
		reports = append(reports, newReport(name, res, eng.History()))
	}
	return reports, s.save(cmd.OutOrStdout(), output, subs)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
