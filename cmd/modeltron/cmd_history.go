package main

import (
	"fmt"
	"io"
	"strings"

	"modeltron/internal/metrics"
	"modeltron/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists transcript sessions or prints one.
var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show recorded sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Sessions to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.Store.Enabled {
		return fmt.Errorf("transcript store is disabled (store.enabled: false)")
	}
	st, err := store.NewTranscriptStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		return printSession(out, st, args[0])
	}

	sessions, err := st.Sessions(historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded.")
		return nil
	}
	for _, s := range sessions {
		name := s.ModelName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%s  %s  %-7s  %3d msgs  acc %s  model %s\n",
			s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.Source, s.Messages,
			metrics.FormatPercent(s.Metrics.Accuracy), name)
	}
	return nil
}

func printSession(out io.Writer, st *store.TranscriptStore, id string) error {
	msgs, err := st.Messages(id)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No messages recorded.")
		return nil
	}
	for _, m := range msgs {
		mode := string(m.Mode)
		if mode == "" {
			mode = "-"
		}
		fmt.Fprintf(out, "[%s] %-9s %-8s %s\n", m.Timestamp.Format("15:04:05"), strings.ToUpper(string(m.Role)), mode, m.Content)
	}
	return nil
}
