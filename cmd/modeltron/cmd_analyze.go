package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"modeltron/internal/types"
	"modeltron/internal/upload"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeFiles []string
	analyzeWatch bool
	analyzeJobs  int
)

// analyzeCmd runs the debugger over text arguments and files.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze ML code or configuration",
	Long: `Runs the model debugger over the given text and every --file.
Inputs are analysed concurrently and reported in the order given.

With --watch the files are re-analysed whenever they change.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeFiles, "file", "f", nil, "File to analyze (repeatable)")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "Re-analyze files when they change")
	analyzeCmd.Flags().IntVarP(&analyzeJobs, "jobs", "j", 4, "Maximum concurrent analyses")
}

// analysisInput is one unit of work: inline text or a file.
type analysisInput struct {
	label string
	path  string // empty for inline text
	text  string
}

type analysisResult struct {
	label  string
	report string
	err    error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && len(analyzeFiles) == 0 {
		return fmt.Errorf("nothing to analyze: pass text or --file")
	}
	if analyzeWatch && len(analyzeFiles) == 0 {
		return fmt.Errorf("--watch requires at least one --file")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	var inputs []analysisInput
	if text != "" {
		inputs = append(inputs, analysisInput{label: "input", text: text})
	}
	for _, f := range analyzeFiles {
		inputs = append(inputs, analysisInput{label: f, path: f})
	}

	sessionID := rt.startSession("cli")
	reader := upload.NewReader(upload.TextPolicy(), cfg.Upload.MaxBytes)
	results := analyzeAll(ctx, rt, reader, inputs, analyzeJobs)

	out := cmd.OutOrStdout()
	failed := 0
	for i, r := range results {
		printResult(out, r)
		if r.err != nil {
			failed++
			continue
		}
		user := inputs[i].text
		if inputs[i].path != "" {
			user = "Uploaded file: " + inputs[i].path
		}
		rt.record(sessionID, types.NewMessage(types.RoleUser, user, types.ModeText))
		rt.record(sessionID, types.NewMessage(types.RoleAssistant, r.report, types.ModeText))
	}

	if analyzeWatch {
		return watchFiles(ctx, rt, reader, analyzeFiles, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}

// analyzeAll fans inputs out over at most jobs goroutines. Results keep input order.
func analyzeAll(ctx context.Context, rt *runtime, reader *upload.Reader, inputs []analysisInput, jobs int) []analysisResult {
	results := make([]analysisResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, in := range inputs {
		g.Go(func() error {
			report, err := analyzeOne(gctx, rt, reader, in)
			results[i] = analysisResult{label: in.label, report: report, err: err}
			// One failed file should not cancel the others.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func analyzeOne(ctx context.Context, rt *runtime, reader *upload.Reader, in analysisInput) (string, error) {
	if in.path == "" {
		logger.Debug("analyzing inline input", zap.Int("bytes", len(in.text)))
		return rt.debugger.AnalyzeModel(ctx, in.text)
	}
	file, err := reader.Read(in.path)
	if err != nil {
		var fe *upload.FormatError
		if errors.As(err, &fe) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", upload.UserMessage(err), err)
	}
	logger.Debug("analyzing file", zap.String("path", in.path), zap.Int64("bytes", file.Size))
	return rt.debugger.AnalyzeModel(ctx, upload.AnalysisPrompt(file.Name, file.Content))
}

func printResult(w io.Writer, r analysisResult) {
	fmt.Fprintf(w, "=== %s ===\n", r.label)
	if r.err != nil {
		fmt.Fprintf(w, "ERROR: %v\n\n", r.err)
		return
	}
	fmt.Fprintf(w, "%s\n\n", strings.TrimRight(r.report, "\n"))
}

// watchFiles re-analyses each file on change until ctx is done.
func watchFiles(ctx context.Context, rt *runtime, reader *upload.Reader, paths []string, out io.Writer) error {
	var mu sync.Mutex // serialises output
	var watchers []*upload.Watcher
	defer func() {
		for _, w := range watchers {
			w.Stop()
		}
	}()

	for _, p := range paths {
		path := p
		w, err := upload.NewWatcher(path, func(string) {
			report, err := analyzeOne(ctx, rt, reader, analysisInput{label: path, path: path})
			mu.Lock()
			defer mu.Unlock()
			printResult(out, analysisResult{label: path, report: report, err: err})
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		watchers = append(watchers, w)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	logger.Info("watching files", zap.Strings("paths", paths))
	fmt.Fprintln(out, "Watching for changes. Press ctrl+c to stop.")
	<-ctx.Done()
	return nil
}

// signalContext cancels on SIGINT/SIGTERM and after the --timeout, unless watching.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if analyzeWatch || timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}
