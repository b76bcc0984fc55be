// Command sparrow boots the sparrownet console: a night-shift piece of
// terminal fiction played one command at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nirradi/sparrownet/cmd/sparrow/config"
	"github.com/nirradi/sparrownet/cmd/sparrow/ui"
	"github.com/nirradi/sparrownet/internal/chapter"
	"github.com/nirradi/sparrownet/internal/chapter/zerohour"
	"github.com/nirradi/sparrownet/internal/logging"
)

const version = "0.4.0"

// watchReloadDelay coalesces the burst of filesystem events an editor
// emits for a single save.
const watchReloadDelay = 200 * time.Millisecond

var (
	// Global flags
	chapterPath string
	watchFlag   bool
	themeFlag   string
	debugFlag   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sparrow",
	Short: "sparrownet - console fiction for one operator",
	Long: `sparrownet drops you into a corporate relay console in the middle of
the night shift. Everything happens through commands: read the mailbox,
poke at the system, fix what the day shift left broken.

Run without arguments to play the built-in chapter.`,
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runConsole,
}

// checkCmd validates a chapter file without starting the console
var checkCmd = &cobra.Command{
	Use:   "check [chapter file]",
	Short: "Validate a chapter file",
	Long: `Parses and validates a chapter file, then reports what it found.
Use this while authoring chapters; the console refuses broken files.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sparrownet version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sparrownet %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Write a debug log under the state directory")
	rootCmd.Flags().StringVarP(&chapterPath, "chapter", "c", "", "Play a chapter file instead of the built-in one")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "Reload the chapter file when it changes (requires --chapter)")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "", "Color theme: light, dark or auto")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger builds the process logger. The TUI owns the terminal, so
// debug logging goes to a file; without debug there is no logging at all.
func setupLogger(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	if !debugFlag && !cfg.Debug {
		logger = zap.NewNop()
		return nil
	}

	dir, err := cfg.ResolveLogDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	logger, err = logging.New(logging.Config{
		Debug:     true,
		Dir:       dir,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	return nil
}

// runConsole starts the interactive console with the resolved chapter.
func runConsole(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()

	path := chapterPath
	if path == "" {
		path = cfg.Chapter
	}
	if watchFlag && path == "" {
		return fmt.Errorf("--watch needs a chapter file (pass --chapter or set one in the config)")
	}

	ch, err := loadChapter(path)
	if err != nil {
		return err
	}

	styles, err := resolveStyles(cfg)
	if err != nil {
		return err
	}

	logger.Info("console starting",
		zap.String("version", version),
		zap.String("chapter", ch.Title),
		zap.Bool("watch", watchFlag))

	p := tea.NewProgram(
		newTerminal(ch, styles, logger),
		tea.WithAltScreen(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		return nil
	})
	if watchFlag {
		g.Go(func() error {
			if err := watchChapter(ctx, path, p, logger); err != nil {
				p.Quit()
				return fmt.Errorf("chapter watcher: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// loadChapter resolves the chapter to play: an explicit file when one is
// given, the built-in chapter otherwise.
func loadChapter(path string) (chapter.Chapter, error) {
	if path == "" {
		return zerohour.New(zerohour.MustDefault(), logger.Named("chapter")), nil
	}
	data, err := zerohour.LoadFile(path)
	if err != nil {
		return chapter.Chapter{}, fmt.Errorf("load chapter %s: %w", path, err)
	}
	return zerohour.New(data, logger.Named("chapter")), nil
}

// resolveStyles picks the color theme: flag beats config beats detection.
func resolveStyles(cfg config.Config) (ui.Styles, error) {
	theme := cfg.Theme
	if themeFlag != "" {
		theme = themeFlag
	}
	switch theme {
	case "light":
		return ui.NewStyles(ui.LightTheme()), nil
	case "dark":
		return ui.NewStyles(ui.DarkTheme()), nil
	case "", "auto":
		return ui.DefaultStyles(), nil
	default:
		return ui.Styles{}, fmt.Errorf("unknown theme %q (want light, dark or auto)", theme)
	}
}

// watchChapter reloads path into the running program whenever it changes.
// It watches the directory rather than the file itself, which survives
// editors that save by rename.
func watchChapter(ctx context.Context, path string, p *tea.Program, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(path)
	log.Info("watching chapter file", zap.String("path", path))

	var timer *time.Timer
	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchReloadDelay)
				reload = timer.C
			} else {
				timer.Reset(watchReloadDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("chapter watch error", zap.Error(err))

		case <-reload:
			timer = nil
			reload = nil
			data, err := zerohour.LoadFile(path)
			if err != nil {
				log.Warn("chapter reload rejected", zap.Error(err))
				p.Send(reloadFailedMsg{err: err})
				continue
			}
			log.Info("chapter reloaded", zap.String("title", data.Title))
			p.Send(chapterMsg(zerohour.New(data, log.Named("chapter"))))
		}
	}
}

// runCheck validates a chapter file and reports what it found.
func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := zerohour.LoadFile(path)
	if err != nil {
		return fmt.Errorf("chapter %s: %w", path, err)
	}

	fmt.Printf("chapter ok: %s\n", data.Title)
	fmt.Printf("  prompt:    %q\n", data.Prompt)
	fmt.Printf("  mailbox:   %d message(s)\n", len(data.Mailbox))
	fmt.Printf("  sysconfig: %d key(s)\n", len(data.SystemConfig))
	return nil
}
