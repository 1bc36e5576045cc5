package main

// Command tree: `hbsq [files...]` runs the editor, the subcommands work on
// the template roots without a terminal.

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/nsf/termbox-go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hbsq/partial"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hbsq [files...]",
		Short: "Handlebars template editor with partial path completion",
		Long: `hbsq edits Handlebars templates and completes {{> partial/paths}}
against one or more template root directories.

Examples:
  # Edit templates, resolving partials under views/partials
  hbsq -r views/partials views/index.hbs

  # List completions for the directive at rune offset 42
  hbsq complete views/index.hbs --offset 42`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runEditor,
	}
	BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newCompleteCmd(),
		newResolveCmd(),
		newTreeCmd(),
		newInfoCmd(),
		newColorsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup layers the config files under the parsed flags.
func setup(cmd *cobra.Command, args []string) error {
	bootLogger := hclog.New(&hclog.LoggerOptions{
		Name:   "hbsq",
		Level:  hclog.Warn,
		Output: cmd.ErrOrStderr(),
	})
	if err := LoadConfig(cmd.Flags(), bootLogger); err != nil {
		return err
	}
	InitFileTypes()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	return nil
}

// openLog returns the writer behind the process logger: ring, when given,
// plus the log file when --log is set. done releases the file.
func openLog(ring io.Writer) (w io.Writer, done func(), err error) {
	done = func() {}
	if ring == nil {
		ring = io.Discard
	}
	if !Config.UseLogFile {
		return ring, done, nil
	}
	f, err := os.OpenFile(Config.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, done, fmt.Errorf("failed to open log file: %w", err)
	}
	return io.MultiWriter(ring, f), func() { f.Close() }, nil
}

// templateRoots returns the configured roots, or nil when there are none.
func templateRoots(logger hclog.Logger) *partial.DirRoots {
	if len(Config.TemplateRoots) == 0 {
		return nil
	}
	return partial.NewDirRoots(Config.TemplateRoots, logger)
}

func runEditor(cmd *cobra.Command, args []string) error {
	logs := newLogRing(200)
	w, closeLog, err := openLog(logs)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger("hbsq", w)
	roots := templateRoots(logger)

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to init termbox: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)

	editor := NewEditor(logger, logs, roots, Config.DevMode)
	editor.wake = termbox.Interrupt

	if roots != nil {
		watcher, err := partial.WatchRoots(roots, logger, func(string) {
			editor.rootsChanged.Store(true)
			termbox.Interrupt()
		})
		if err != nil {
			logger.Warn("template roots are not watched", "error", err)
		} else {
			defer watcher.Close()
		}
	}
	editor.PeriodicFileChangesCheck()

	for _, filename := range args {
		if err := editor.LoadFile(filename); err != nil {
			return fmt.Errorf("failed to open file %s: %w", filename, err)
		}
	}
	if len(args) > 0 {
		editor.activeBufferIndex = 0
	}

	editor.HandleEvents()
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show file types and template settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			PrintInfo(cmd.OutOrStdout())
		},
	}
}

func newColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "Preview the theme and the terminal palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintColors()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
