package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/subfix/internal/config"
	"github.com/dshills/subfix/internal/correct"
	"github.com/dshills/subfix/internal/engine/history"
	"github.com/dshills/subfix/internal/engine/pattern"
	"github.com/dshills/subfix/internal/logging"
	"github.com/dshills/subfix/internal/subtitle"
	"github.com/dshills/subfix/internal/subtitle/mpl2"
)

// session holds what every command needs: settings, logger and the
// selected document.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	doc    subtitle.Document
	json   bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	docName, _ := cmd.Flags().GetString("doc")
	doc, err := subtitle.ParseDocument(docName)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	jsonOut, _ := cmd.Flags().GetBool("json")

	logger := logging.Setup(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithContext(ctx, logger))

	return &session{
		cfg:    cfg,
		logger: logger,
		doc:    doc,
		json:   jsonOut,
	}, nil
}

// table returns the pattern table of kind, from override when given.
func (s *session) table(kind config.PatternKind, override string) (pattern.Table, error) {
	if override != "" {
		return pattern.LoadFile(override)
	}
	return s.cfg.LoadPatterns(kind)
}

// load reads an MPL2 file into an engine recording into a fresh history.
func (s *session) load(path string) (*subtitle.Subtitles, *correct.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	entries, err := mpl2.Read(f, s.doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	subs := subtitle.New(entries...)
	h := history.New(s.cfg.History.MaxEntries(), history.WithLogger(s.logger))
	eng := correct.New(subs, h,
		correct.WithLogger(s.logger),
		correct.WithMarkup(s.doc, subtitle.MPL2Markup),
	)
	return subs, eng, nil
}

// save writes entries to path, or to w when path is "" or "-".
func (s *session) save(w io.Writer, path string, subs *subtitle.Subtitles) error {
	if path == "" || path == "-" {
		return mpl2.Write(w, subs.Entries(), s.doc, "\n")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mpl2.Write(f, subs.Entries(), s.doc, "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type change struct {
	Entry int    `json:"entry"`
	Text  string `json:"text"`
}

type report struct {
	Operation   string   `json:"operation"`
	Description string   `json:"description,omitempty"`
	Action      string   `json:"action,omitempty"`
	Steps       int      `json:"steps,omitempty"`
	UndoDepth   int      `json:"undo_depth"`
	Changed     []change `json:"changed"`
	Removed     []int    `json:"removed,omitempty"`
}

// newReport describes res, reading the recorded action back from h.
func newReport(name string, res *correct.Result, h *history.History) report {
	r := report{Operation: name, Changed: []change{}, UndoDepth: h.UndoCount()}
	if res.NoChange() {
		return r
	}
	r.Description = res.Action.Description()
	if top, ok := h.PeekUndo(); ok && top.ID == res.Action.ID {
		r.Action = top.ID.String()
		r.Steps = top.Steps
	}
	for k, index := range res.Indexes {
		r.Changed = append(r.Changed, change{Entry: index + 1, Text: res.Texts[k]})
	}
	for _, index := range res.Removed {
		r.Removed = append(r.Removed, index+1)
	}
	return r
}

// print writes reports as JSON lines or as text.
func (s *session) print(w io.Writer, reports []report) error {
	if s.json {
		enc := json.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range reports {
		if len(r.Changed) == 0 {
			fmt.Fprintf(w, "%s: no change\n", r.Operation)
			continue
		}
		fmt.Fprintf(w, "%s: %d changed, %d removed\n", r.Description, len(r.Changed), len(r.Removed))
		for _, c := range r.Changed {
			fmt.Fprintf(w, "  #%d\t%q\n", c.Entry, c.Text)
		}
	}
	return nil
}
