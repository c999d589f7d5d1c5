package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/subfix/internal/config"
	"github.com/dshills/subfix/internal/correct"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/subtitle"
)

// opFunc runs one correction through an engine.
type opFunc func(eng *correct.Engine, indexes []int, doc subtitle.Document, table pattern.Table) (*correct.Result, error)

// step is one correction with the table it reads.
type step struct {
	name string
	kind config.PatternKind
	run  opFunc
}

// operationNames lists the corrections in the order watch applies them.
var operationNames = []string{"hearing-impaired", "correct", "capitalize", "break-lines"}

// newStep resolves an operation name. The returned function releases
// resources held by the step.
func newStep(cmd *cobra.Command, s *session, name string) (step, func(), error) {
	noop := func() {}
	switch name {
	case "capitalize":
		return step{name, config.Capitalize, (*correct.Engine).Capitalize}, noop, nil
	case "correct":
		return step{name, config.CommonErrors, (*correct.Engine).CorrectCommonErrors}, noop, nil
	case "hearing-impaired":
		return step{name, config.HearingImpaired, (*correct.Engine).RemoveHearingImpaired}, noop, nil
	case "break-lines":
		opts, done, err := breakOptions(cmd, s.cfg, s.logger)
		if err != nil {
			return step{}, nil, err
		}
		run := func(eng *correct.Engine, indexes []int, doc subtitle.Document, table pattern.Table) (*correct.Result, error) {
			return eng.BreakLines(indexes, doc, table, opts)
		}
		return step{name, config.LineBreak, run}, done, nil
	}
	return step{}, nil, fmt.Errorf("unknown operation %q", name)
}

// breakOptions reads line breaking settings, letting command flags
// override the configuration.
func breakOptions(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (correct.BreakOptions, func(), error) {
	lb := cfg.LineBreak
	intFlag(cmd, "max-length", &lb.MaxLength)
	intFlag(cmd, "max-lines", &lb.MaxLines)
	intFlag(cmd, "max-skip-length", &lb.MaxSkipLength)
	intFlag(cmd, "max-skip-lines", &lb.MaxSkipLines)
	if f := cmd.Flags().Lookup("max-deviation"); f != nil && f.Changed {
		lb.MaxDeviation, _ = cmd.Flags().GetFloat64("max-deviation")
	}
	if f := cmd.Flags().Lookup("skip"); f != nil && f.Changed {
		lb.Skip, _ = cmd.Flags().GetBool("skip")
	}
	if f := cmd.Flags().Lookup("length-unit"); f != nil && f.Changed {
		lb.LengthUnit = f.Value.String()
	}

	c := *cfg
	c.LineBreak = lb
	if err := c.Validate(); err != nil {
		return correct.BreakOptions{}, nil, err
	}
	length, done, err := c.LengthFunc(logger)
	if err != nil {
		return correct.BreakOptions{}, nil, err
	}

	return correct.BreakOptions{
		MaxLength:     lb.MaxLength,
		MaxLines:      lb.MaxLines,
		MaxDeviation:  lb.MaxDeviation,
		Length:        length,
		Skip:          lb.Skip,
		MaxSkipLength: lb.MaxSkipLength,
		MaxSkipLines:  lb.MaxSkipLines,
	}, done, nil
}

func intFlag(cmd *cobra.Command, name string, dst *int) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

// toIndexes converts 1-based entry numbers.
func toIndexes(entries []int) []int {
	if len(entries) == 0 {
		return nil
	}
	out := make([]int, len(entries))
	for i, n := range entries {
		out[i] = n - 1
	}
	return out
}

func newOperationCmd(name, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <file>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			st, done, err := newStep(cmd, s, name)
			if err != nil {
				return err
			}
			defer done()

			override, _ := cmd.Flags().GetString("patterns")
			table, err := s.table(st.kind, override)
			if err != nil {
				return err
			}
			entries, _ := cmd.Flags().GetIntSlice("indexes")
			output, _ := cmd.Flags().GetString("output")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			subs, eng, err := s.load(args[0])
			if err != nil {
				return err
			}
			h := eng.History()
			cp := h.CreateCheckpoint()
			res, err := st.run(eng, toIndexes(entries), s.doc, table)
			if err != nil {
				return err
			}

			// Keep the subtitle stream on stdout clean.
			var info io.Writer = cmd.OutOrStdout()
			if !dryRun && (output == "" || output == "-") {
				info = cmd.ErrOrStderr()
			}
			if err := s.print(info, []report{newReport(name, res, h)}); err != nil {
				return err
			}

			if dryRun {
				return h.UndoToCheckpoint(cp)
			}
			return s.save(cmd.OutOrStdout(), output, subs)
		},
	}
	cmd.Flags().IntSlice("indexes", nil, "Entry numbers to process, starting at 1 (default all)")
	cmd.Flags().String("patterns", "", "Pattern file overriding the configured table")
	cmd.Flags().StringP("output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().Bool("dry-run", false, "Report changes without writing output")
	return cmd
}

func newCapitalizeCmd() *cobra.Command {
	return newOperationCmd("capitalize", "Capitalize the first letters of sentences",
		`Capitalize the start of each run of entries and every letter that a
capitalization pattern marks, carrying an open sentence end over to the
next entry.`)
}

func newCorrectCmd() *cobra.Command {
	return newOperationCmd("correct", "Correct common human and OCR errors",
		`Apply every enabled common error pattern to each text, in table order.`)
}

func newHearingImpairedCmd() *cobra.Command {
	return newOperationCmd("hearing-impaired", "Remove hearing impaired texts",
		`Remove sound descriptions and speaker names, tidy what is left, and
delete entries left without text.`)
}

func newBreakLinesCmd() *cobra.Command {
	cmd := newOperationCmd("break-lines", "Break lines to fit length and line count",
		`Rewrap texts at the break points of the line break table so that lines
fit the maximum length, exceeding the line count only as a last resort.`)
	cmd.Flags().Int("max-length", 0, "Maximum line length")
	cmd.Flags().Int("max-lines", 0, "Maximum number of lines")
	cmd.Flags().Float64("max-deviation", 0, "Tolerated overflow of max-length once max-lines is reached")
	cmd.Flags().Bool("skip", false, "Skip texts within the skip limits")
	cmd.Flags().Int("max-skip-length", 0, "Longest line of a skipped text (0 unbounded)")
	cmd.Flags().Int("max-skip-lines", 0, "Most lines of a skipped text (0 unbounded)")
	cmd.Flags().String("length-unit", "", "Length unit (runes, width, graphemes, bytes, lua)")
	return cmd
}
