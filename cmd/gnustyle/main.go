// gnustyle checks the lines a patch adds against GNU coding style.
//
// Usage:
//
//	git format-patch -1 --stdout | gnustyle -
//	gnustyle -f quickfix fix.patch && vim -q errors.err
//	gnustyle -f sarif fix.patch > gnustyle.sarif
//
// Exit codes:
//
//	0  no violations
//	1  at least one violation
//	2  usage, configuration, I/O or malformed patch error
//	3  a required dependency is unavailable
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/gnustyle/internal/config"
	"github.com/dkoosis/gnustyle/internal/logging"
	"github.com/dkoosis/gnustyle/internal/version"
	"github.com/dkoosis/gnustyle/pkg/diag"
	"github.com/dkoosis/gnustyle/pkg/patch"
	"github.com/dkoosis/gnustyle/pkg/render"
	"github.com/dkoosis/gnustyle/pkg/report"
	"github.com/dkoosis/gnustyle/pkg/style"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the streams and the exit status of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  config.CliFlags
	code   int
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "gnustyle: %v\n", err)
		return exitFor(err)
	}
	return a.code
}

// exitFor maps an error to a process exit status. Malformed patches,
// invalid configuration, usage and I/O errors all exit with ExitError.
func exitFor(err error) int {
	if errors.Is(err, report.ErrDependency) {
		return report.ExitDependency
	}
	return report.ExitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gnustyle [flags] <patch>",
		Short:         "Check the lines a patch adds against GNU coding style",
		Long:          "gnustyle reads a unified diff and reports GNU coding-style violations on added lines.\nUse - to read the patch from stdin.\nA patch file named like a subcommand (checks, version) must be given as ./checks.",
		Args:          cobra.ExactArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.markSet(cmd)
			return a.check(args[0])
		},
	}

	f := root.Flags()
	f.StringVarP(&a.flags.Format, "format", "f", config.DefaultFormat, "output format: "+strings.Join(config.Formats, ", "))
	f.StringVarP(&a.flags.Output, "output", "o", config.DefaultQuickfixFile, "quickfix file written by --format quickfix")
	f.StringVar(&a.flags.Theme, "theme", config.DefaultTheme, "theme: "+strings.Join(render.ThemeNames(), ", "))
	f.StringVar(&a.flags.Color, "color", string(render.ColorAuto), "colorize output: auto, always, never")

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigFile, "config", "", "config file (default .gnustyle.yaml, then ~/.config/gnustyle/.gnustyle.yaml)")
	pf.StringSliceVar(&a.flags.Disable, "disable", nil, "comma-separated check IDs to skip")
	pf.BoolVar(&a.flags.Debug, "debug", false, "log debug information to stderr")

	root.AddCommand(a.checksCmd(), a.versionCmd())
	return root
}

// markSet records which flags the user gave explicitly so config resolution
// can tell them apart from defaults.
func (a *app) markSet(cmd *cobra.Command) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	a.flags.FormatSet = changed("format")
	a.flags.OutputSet = changed("output")
	a.flags.ThemeSet = changed("theme")
	a.flags.ColorSet = changed("color")
	a.flags.DisableSet = changed("disable")
	a.flags.DebugSet = changed("debug")
}

func (a *app) check(path string) error {
	cfg, err := config.Resolve(a.flags)
	if err != nil {
		return err
	}
	log := logging.New(a.stderr, cfg.Debug)
	log.Debug("config resolved",
		"file", cfg.Path,
		"format", cfg.Format, "format_source", cfg.FormatSource,
		"theme", cfg.Theme, "theme_source", cfg.ThemeSource,
		"color", cfg.Color, "color_source", cfg.ColorSource)

	data, err := a.readPatch(path)
	if err != nil {
		return err
	}
	files, err := patch.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	files, skipped := patch.Exclude(files, cfg.TestsuiteMarker)
	for _, s := range skipped {
		log.Debug("skipping test-suite file", "path", s)
	}
	for _, f := range files {
		log.Debug("checking file", "path", f.Path, "orig", f.OrigPath, "new", f.New, "added_lines", len(f.AddedLines()))
		for _, h := range f.Hunks {
			log.Debug("hunk", "path", f.Path, "start", h.NewStart, "section", h.Section, "lines", len(h.Lines))
		}
	}

	theme := render.ThemeByName(cfg.Theme, render.NewRenderer(a.stdout, cfg.Color, isTTYWriter(a.stdout)))
	runner, err := style.NewRunner(cfg.Style(theme.Mark))
	if err != nil {
		return err
	}
	diags := runner.CheckFiles(files)
	log.Debug("checked patch", "files", len(files), "skipped", len(skipped), "checks", len(runner.Checks()), "diagnostics", len(diags))

	if err := a.write(cfg, theme, diags, log); err != nil {
		return err
	}
	a.code = report.ExitCode(diags)
	return nil
}

func (a *app) write(cfg *config.Config, theme render.Theme, diags []diag.Diagnostic, log *slog.Logger) error {
	w := report.NewWriter(a.stdout, theme)
	w.Version = version.Version
	switch cfg.Format {
	case config.FormatQuickfix:
		log.Debug("writing quickfix file", "path", cfg.QuickfixFile)
		return w.WriteQuickfix(cfg.QuickfixFile, diags)
	case config.FormatSARIF:
		return w.WriteSARIF(diags, style.Catalog(cfg.Style(nil)))
	default:
		return w.WriteStdio(diags)
	}
}

func (a *app) readPatch(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patch: %w", err)
	}
	return data, nil
}

func (a *app) checksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the style checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.markSet(cmd)
			cfg, err := config.Resolve(a.flags)
			if err != nil {
				return err
			}
			disabled := map[string]bool{}
			for _, id := range cfg.Disable {
				disabled[id] = true
			}
			for _, e := range style.Catalog(cfg.Style(nil)) {
				state := ""
				if disabled[e.ID] {
					state = " (disabled)"
				}
				fmt.Fprintf(a.stdout, "%-24s %-24s %s%s\n", e.ID, e.Title, e.Message, state)
			}
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
