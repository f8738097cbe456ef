package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"modeltron/internal/tutor"

	"github.com/spf13/cobra"
)

var tutorSummarize string

// tutorCmd runs the line-oriented ML tutor.
var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Interactive ML tutor",
	Long: `Starts a line-oriented tutor session. Type START [name] to begin,
HELP for commands and EXIT to leave.

With --summarize the tutor analyses a document and exits.`,
	Args: cobra.NoArgs,
	RunE: runTutor,
}

func init() {
	tutorCmd.Flags().StringVar(&tutorSummarize, "summarize", "", "Summarize a text document and exit")
}

func runTutor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if tutorSummarize != "" {
		data, err := os.ReadFile(tutorSummarize)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", tutorSummarize, err)
		}
		fmt.Fprintln(out, tutor.SummarizeDocument(string(data)))
		return nil
	}

	return tutorLoop(cmd.InOrStdin(), out, tutor.New())
}

// tutorLoop reads commands until EOF or EXIT.
func tutorLoop(in io.Reader, out io.Writer, t *tutor.Tutor) error {
	fmt.Fprintln(out, "MODELTRON-8000 TUTOR. Type START to begin, EXIT to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToUpper(line) {
		case "EXIT", "QUIT":
			fmt.Fprintln(out, "GOODBYE.")
			return nil
		}
		fmt.Fprintln(out, t.Respond(line).Content)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
