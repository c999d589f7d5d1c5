package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/subfix/internal/config"
	"github.com/dshills/subfix/internal/engine/pattern"
)

func newPatternsCmd() *cobra.Command {
	kinds := make([]string, len(config.PatternKinds))
	for i, k := range config.PatternKinds {
		kinds[i] = string(k)
	}

	return &cobra.Command{
		Use:       "patterns <kind>",
		Short:     "Print the effective pattern table as YAML",
		Long:      fmt.Sprintf("Print the pattern table in use for one of: %v.\nThe output can be saved and edited as a pattern file.", kinds),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			table, err := s.table(config.PatternKind(args[0]), "")
			if err != nil {
				return err
			}
			if _, err := table.Compile(); err != nil {
				s.logger.Warn("pattern table does not compile", "kind", args[0], "err", err)
			}
			return pattern.Save(cmd.OutOrStdout(), table)
		},
	}
}
