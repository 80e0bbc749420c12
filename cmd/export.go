package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/progress"
	"github.com/ziadkadry99/pagecraft/internal/project"
)

var (
	exportOutput string
	exportDir    string
	exportPages  []string
	exportWatch  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <project.json>",
	Short: "Export a project file as a static site",
	Long: `Renders every page of a project file to HTML with a shared stylesheet and
script, and writes the result as a zip archive or into a directory.

Use --pages to export only pages whose route (e.g. /docs/**) or output file
name (e.g. docs-*) matches a glob, and --watch to rebuild whenever the
project file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		if exportOutput == "" {
			exportOutput = cfg.Export.Filename
		}

		b := &siteBuilder{
			source:    args[0],
			output:    exportOutput,
			dir:       exportDir,
			patterns:  exportPages,
			assembler: export.New(newGenerator(cfg)),
			logger:    logger,
		}
		if err := b.build(); err != nil {
			if !exportWatch {
				return err
			}
			logger.Error("export failed", "error", err)
		}
		if !exportWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return b.watch(ctx, 300*time.Millisecond)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "zip archive to write (defaults to export.filename)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "write files into this directory instead of a zip archive")
	exportCmd.Flags().StringSliceVar(&exportPages, "pages", nil, "only export pages whose route or file name matches these globs")
	exportCmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "rebuild when the project file changes")
	rootCmd.AddCommand(exportCmd)
}

type siteBuilder struct {
	source    string
	output    string
	dir       string
	patterns  []string
	assembler *export.Assembler
	logger    *slog.Logger
}

func (b *siteBuilder) build() error {
	snap, err := project.ReadFile(b.source)
	if err != nil {
		return err
	}
	pages, err := export.FilterPages(snap.Pages, b.patterns)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages to export", export.ErrMalformedInput)
	}

	if b.dir != "" {
		n, err := b.assembler.WriteDir(b.dir, pages, progress.NewReporter("Exporting"))
		if err != nil {
			return err
		}
		b.logger.Info("site exported", "dir", b.dir, "files", n, "pages", len(pages))
		return nil
	}

	data, err := b.assembler.Archive(pages)
	if err != nil {
		return err
	}
	if err := os.WriteFile(b.output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.output, err)
	}
	b.logger.Info("site exported", "archive", b.output, "bytes", len(data), "pages", len(pages))
	return nil
}

// watch rebuilds after the source file settles. The parent directory is
// watched because editors often replace files by rename.
func (b *siteBuilder) watch(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	source, err := filepath.Abs(b.source)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(source), err)
	}

	debounced := debounce.New(delay)
	rebuild := func() {
		if err := b.build(); err != nil {
			b.logger.Error("export failed", "error", err)
		}
	}

	b.logger.Info("watching for changes", "file", source)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != source {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				b.logger.Debug("project file changed", "op", event.Op.String())
				debounced(rebuild)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("watcher error", "error", err)
		}
	}
}
