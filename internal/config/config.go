package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/gnustyle/pkg/patch"
	"github.com/dkoosis/gnustyle/pkg/render"
	"github.com/dkoosis/gnustyle/pkg/style"
)

// FileName is the config file looked up in the working directory and in the
// user config directory.
const FileName = ".gnustyle.yaml"

// Output formats.
const (
	FormatStdio    = "stdio"
	FormatQuickfix = "quickfix"
	FormatSARIF    = "sarif"
)

// Defaults for the non-check settings.
const (
	DefaultFormat       = FormatStdio
	DefaultQuickfixFile = "errors.err"
	DefaultTheme        = "default"
)

// Sources recorded for resolved values.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Formats lists the supported output formats.
var Formats = []string{FormatStdio, FormatQuickfix, FormatSARIF}

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	ConfigFile string
	Format     string
	Output     string
	Theme      string
	Color      string
	Disable    []string
	Debug      bool

	// Flags to track if they were explicitly set by the user
	FormatSet  bool
	OutputSet  bool
	ThemeSet   bool
	ColorSet   bool
	DisableSet bool
	DebugSet   bool
}

// FileConfig is the content of .gnustyle.yaml. Zero values mean unset.
type FileConfig struct {
	LineLimit       int      `yaml:"line_limit"`
	TabWidth        int      `yaml:"tab_width"`
	TestsuiteMarker *string  `yaml:"testsuite_marker"`
	Marker          string   `yaml:"marker"`
	WidthMode       string   `yaml:"width_mode"`
	Format          string   `yaml:"format"`
	QuickfixFile    string   `yaml:"quickfix_file"`
	Theme           string   `yaml:"theme"`
	Color           string   `yaml:"color"`
	Disable         []string `yaml:"disable"`
	Debug           bool     `yaml:"debug"`
}

// Config is the fully resolved configuration.
type Config struct {
	LineLimit       int
	TabWidth        int
	TestsuiteMarker string
	Marker          string
	WidthMode       style.WidthMode
	Format          string
	QuickfixFile    string
	Theme           string
	Color           render.ColorMode
	Disable         []string
	Debug           bool

	// Resolution metadata (for debugging)
	Path         string // config file used, empty when none
	FormatSource string
	ThemeSource  string
	ColorSource  string
}

// Style returns the check configuration. highlight marks offending spans.
func (c *Config) Style(highlight func(string) string) style.Config {
	return style.Config{
		LineLimit: c.LineLimit,
		TabWidth:  c.TabWidth,
		Marker:    c.Marker,
		Highlight: highlight,
		WidthMode: c.WidthMode,
		Disabled:  c.Disable,
	}
}

func defaults() *Config {
	return &Config{
		LineLimit:       style.DefaultLineLimit,
		TabWidth:        style.DefaultTabWidth,
		TestsuiteMarker: patch.DefaultTestsuiteMarker,
		Marker:          style.DefaultMarker,
		WidthMode:       style.WidthRunes,
		Format:          DefaultFormat,
		QuickfixFile:    DefaultQuickfixFile,
		Theme:           DefaultTheme,
		Color:           render.ColorAuto,
		FormatSource:    SourceDefault,
		ThemeSource:     SourceDefault,
		ColorSource:     SourceDefault,
	}
}

// LoadFile reads and strictly decodes a config file. Unknown keys are
// rejected.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return &fc, nil
}

// Resolve merges defaults, the config file, environment and flags, then
// validates the result. An explicit --config file must exist; a discovered
// one is optional.
func Resolve(flags CliFlags) (*Config, error) {
	cfg := defaults()

	path := flags.ConfigFile
	if path == "" {
		path = getConfigPath()
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Path = path
		applyFile(cfg, fc)
	}

	applyEnv(cfg)
	applyFlags(cfg, flags)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc *FileConfig) {
	if fc.LineLimit != 0 {
		cfg.LineLimit = fc.LineLimit
	}
	if fc.TabWidth != 0 {
		cfg.TabWidth = fc.TabWidth
	}
	if fc.TestsuiteMarker != nil {
		cfg.TestsuiteMarker = *fc.TestsuiteMarker
	}
	if fc.Marker != "" {
		cfg.Marker = fc.Marker
	}
	if fc.WidthMode != "" {
		cfg.WidthMode = style.WidthMode(fc.WidthMode)
	}
	if fc.Format != "" {
		cfg.Format, cfg.FormatSource = fc.Format, SourceFile
	}
	if fc.QuickfixFile != "" {
		cfg.QuickfixFile = fc.QuickfixFile
	}
	if fc.Theme != "" {
		cfg.Theme, cfg.ThemeSource = fc.Theme, SourceFile
	}
	if fc.Color != "" {
		cfg.Color, cfg.ColorSource = render.ColorMode(fc.Color), SourceFile
	}
	if fc.Disable != nil {
		cfg.Disable = fc.Disable
	}
	cfg.Debug = fc.Debug
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GNUSTYLE_FORMAT"); v != "" {
		cfg.Format, cfg.FormatSource = v, SourceEnv
	}
	if v := os.Getenv("GNUSTYLE_THEME"); v != "" {
		cfg.Theme, cfg.ThemeSource = v, SourceEnv
	}
	if noColor := getEnvBool("GNUSTYLE_NO_COLOR", "NO_COLOR"); noColor != nil && *noColor {
		cfg.Color, cfg.ColorSource = render.ColorNever, SourceEnv
	}
	if os.Getenv("GNUSTYLE_DEBUG") != "" {
		cfg.Debug = true
	}
}

func applyFlags(cfg *Config, flags CliFlags) {
	if flags.FormatSet {
		cfg.Format, cfg.FormatSource = flags.Format, SourceCLI
	}
	if flags.OutputSet {
		cfg.QuickfixFile = flags.Output
	}
	if flags.ThemeSet {
		cfg.Theme, cfg.ThemeSource = flags.Theme, SourceCLI
	}
	if flags.ColorSet {
		cfg.Color, cfg.ColorSource = render.ColorMode(flags.Color), SourceCLI
	}
	if flags.DisableSet {
		cfg.Disable = flags.Disable
	}
	if flags.DebugSet {
		cfg.Debug = flags.Debug
	}
}

// getConfigPath tries to find the config file, checking the working
// directory first and then the XDG user config directory.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "gnustyle", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.LineLimit <= 0 {
		return fmt.Errorf("%w: line_limit must be positive, got: %d", ErrInvalid, cfg.LineLimit)
	}
	if cfg.TabWidth <= 0 {
		return fmt.Errorf("%w: tab_width must be positive, got: %d", ErrInvalid, cfg.TabWidth)
	}
	switch cfg.WidthMode {
	case style.WidthRunes, style.WidthCells:
	default:
		return fmt.Errorf("%w: invalid width_mode value: %s (must be: runes, cells)", ErrInvalid, cfg.WidthMode)
	}
	if !slices.Contains(Formats, cfg.Format) {
		return fmt.Errorf("%w: invalid format value: %s (must be: stdio, quickfix, sarif)", ErrInvalid, cfg.Format)
	}
	if !render.IsTheme(cfg.Theme) {
		return fmt.Errorf("%w: unknown theme %q (must be one of %v)", ErrInvalid, cfg.Theme, render.ThemeNames())
	}
	if _, err := render.ParseColorMode(string(cfg.Color)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	known := map[string]bool{}
	for _, e := range style.Catalog(style.DefaultConfig()) {
		known[e.ID] = true
	}
	for _, id := range cfg.Disable {
		if !known[id] {
			return fmt.Errorf("%w: unknown check %q in disable list", ErrInvalid, id)
		}
	}
	return nil
}
