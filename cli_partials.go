package main

// Offline commands over the template roots: complete a directive in a file,
// resolve a partial path, list every partial.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hbsq/partial"
)

var (
	errNoRoots         = errors.New("no template roots configured")
	errPartialNotFound = errors.New("partial not found")
	errNoCandidate     = errors.New("no such candidate")
)

// cliLogger writes to the log file with --log and nowhere otherwise.
func cliLogger() (hclog.Logger, func(), error) {
	w, done, err := openLog(nil)
	if err != nil {
		return nil, done, err
	}
	return newLogger("hbsq", w), done, nil
}

type candidateView struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Insert   string `json:"insert" yaml:"insert"`
	Location string `json:"location" yaml:"location"`
}

type completeResult struct {
	Candidates []candidateView `json:"candidates" yaml:"candidates"`
	Accepted   string          `json:"accepted,omitempty" yaml:"accepted,omitempty"`
	Text       string          `json:"text,omitempty" yaml:"text,omitempty"`
	Cursor     int             `json:"cursor" yaml:"cursor"`
}

type resolveResult struct {
	Path     string `json:"path" yaml:"path"`
	Location string `json:"location" yaml:"location"`
}

// writeFormatted encodes v as json or yaml. It reports false for text.
func writeFormatted(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func printCandidate(w io.Writer, c candidateView) {
	name := color.GreenString(c.Insert)
	if c.Kind == partial.KindDirectory.String() {
		name = color.BlueString(c.Insert)
	}
	fmt.Fprintf(w, "%s\t%s\n", name, color.HiBlackString(c.Location))
}

func newCompleteCmd() *cobra.Command {
	var (
		offset int
		accept string
		cancel bool
		write  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "List or apply completions for the partial path at an offset",
		Long: `Runs one completion session on FILE with the cursor at --offset
(counted in characters). Without --accept the candidates are listed and the
session is cancelled, leaving the text as it was.

Examples:
  hbsq complete views/index.hbs --offset 42
  hbsq complete views/index.hbs --offset 42 --accept components/ --format json
  hbsq complete views/index.hbs --offset 42 --accept button --write`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if accept != "" && cancel {
				return errors.New("--accept and --cancel are mutually exclusive")
			}
			logger, done, err := cliLogger()
			if err != nil {
				return err
			}
			defer done()

			roots := templateRoots(logger)
			if roots == nil {
				return errNoRoots
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			text := string(data)
			if n := len([]rune(text)); offset < 0 || offset > n {
				return fmt.Errorf("offset %d outside 0..%d", offset, n)
			}

			buf := partial.NewTextBuffer(text, offset)
			completer := &partial.Completer{Roots: roots, Ext: Config.PartialExt, Logger: logger}
			result, err := runCompletion(completer, buf, accept)
			if err != nil {
				return err
			}

			if write && accept != "" {
				if err := os.WriteFile(args[0], []byte(result.Text), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
			}

			out := cmd.OutOrStdout()
			if ok, err := writeFormatted(out, format, result); ok {
				return err
			}
			if accept == "" {
				for _, c := range result.Candidates {
					printCandidate(out, c)
				}
				return nil
			}
			if !write {
				fmt.Fprint(out, result.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Cursor offset in characters")
	cmd.Flags().StringVar(&accept, "accept", "", "Accept the candidate with this name")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel the session (the default without --accept)")
	cmd.Flags().BoolVar(&write, "write", false, "Write the accepted result back to FILE")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.MarkFlagRequired("offset")
	return cmd
}

// runCompletion starts a session on buf, lists its candidates and then
// accepts the one named accept, or cancels when accept is empty.
func runCompletion(c *partial.Completer, buf *partial.TextBuffer, accept string) (completeResult, error) {
	s := c.Start(partial.Host{Buffer: buf})
	items := s.Candidates()

	var result completeResult
	for _, item := range items {
		result.Candidates = append(result.Candidates, candidateView{
			Name:     item.Name,
			Kind:     item.Kind.String(),
			Insert:   item.InsertText(),
			Location: item.Location,
		})
	}

	if accept == "" {
		if err := s.Cancel(); err != nil {
			return result, err
		}
		result.Text, result.Cursor = buf.Text(), buf.Cursor()
		return result, nil
	}

	for _, item := range items {
		if item.Name == accept || item.InsertText() == accept {
			if err := s.Accept(item); err != nil {
				return result, err
			}
			result.Accepted = item.Name
			result.Text, result.Cursor = buf.Text(), buf.Cursor()
			return result, nil
		}
	}
	if err := s.Cancel(); err != nil {
		return result, err
	}
	return result, fmt.Errorf("%q: %w", accept, errNoCandidate)
}

func newResolveCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "resolve PATH",
		Short: "Print the file a partial path refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, done, err := cliLogger()
			if err != nil {
				return err
			}
			defer done()

			roots := templateRoots(logger)
			if roots == nil {
				return errNoRoots
			}
			n, ok := partial.ResolveFile(args[0], roots.Roots(), Config.PartialExt)
			if !ok {
				return fmt.Errorf("%q: %w", args[0], errPartialNotFound)
			}

			result := resolveResult{Path: args[0], Location: n.Location()}
			if ok, err := writeFormatted(cmd.OutOrStdout(), format, result); ok {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func newTreeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "List every partial reachable from the template roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, done, err := cliLogger()
			if err != nil {
				return err
			}
			defer done()

			roots := templateRoots(logger)
			if roots == nil {
				return errNoRoots
			}
			var entries []resolveResult
			for _, e := range partial.Walk(roots.Roots(), Config.PartialExt) {
				entries = append(entries, resolveResult{Path: e.Path, Location: e.Location})
			}

			out := cmd.OutOrStdout()
			if ok, err := writeFormatted(out, format, entries); ok {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\n", color.GreenString(e.Path), color.HiBlackString(e.Location))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}
