package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kson-lang/kson/internal/kson/kson"
	"github.com/kson-lang/kson/internal/kwatch"
)

var watchDir string

// NewWatchCommand re-analyzes .kson files under a directory on every save.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch .kson files and re-analyze them on save",
		RunE:  runWatch,
	}
	cmd.Flags().StringVarP(&watchDir, "dir", "d", ".", "directory to watch")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(watchDir); os.IsNotExist(err) {
		return fmt.Errorf("directory %s does not exist", watchDir)
	}

	logger, err := newWatchLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	w, err := kwatch.New(sugar, []string{"*.swp", "*.swo", "*~"}, func(sessionID string, files []string) error {
		for _, f := range files {
			analyzeOnSave(cmd, sugar, sessionID, f)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	absDir, err := filepath.Abs(watchDir)
	if err != nil {
		return err
	}
	if err := w.Start([]string{absDir}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	banner := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(cmd.OutOrStdout())
	banner.Fprintf(cmd.OutOrStdout(), "watching %s for .kson changes\n", absDir)
	color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "press Ctrl+C to stop")

	<-sigChan

	fmt.Fprintln(cmd.OutOrStdout(), "\nshutting down...")
	return w.Stop()
}

func analyzeOnSave(cmd *cobra.Command, log *zap.SugaredLogger, sessionID, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Errorw("failed to read changed file", "session", sessionID, "path", path, "error", err)
		return
	}

	doc := kson.Analyze(string(src))
	for _, d := range doc.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, d.Format())
	}
	if doc.Value == nil {
		log.Warnw("analysis found errors", "session", sessionID, "path", path)
		return
	}
	log.Infow("analysis clean", "session", sessionID, "path", path)
}

func newWatchLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
