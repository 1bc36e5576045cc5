package main

// Global configuration of the editor. Settings come from command-line flags
// and, for anything not given on the command line, from TOML config files:
//
//   ~/.config/hbsq/config.toml  <  ./.hbsq.toml  <  --config PATH
//
// Later files override earlier ones.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

const (
	configDirName   = "hbsq"
	configFileName  = "config.toml"
	projectFileName = ".hbsq.toml"
)

// Configuration holds all adjustable settings for the editor.
type Configuration struct {
	GutterWidth          int           // Width of the left column (line numbers).
	DefaultTabWidth      int           // Number of spaces a tab character represents.
	FuzzyFinderHeight    int           // Number of rows the fuzzy finder takes up.
	LeaderKey            rune          // The prefix key for custom commands (default: \).
	UseLogFile           bool          // Whether to write debug logs to a file.
	LogFilePath          string        // Where to store the debug logs.
	LogLevel             string        // hclog level name (trace, debug, info, warn, error).
	NumLogsInDebugWindow int           // How many recent logs to show in the UI debug window.
	FileCheckInterval    time.Duration // How often to check for external file changes.
	TemplateRoots        []string      // Directories partial paths are resolved against.
	PartialExt           string        // Extension of partial files.
	SlashTrigger         bool          // Open the completion popup when '/' is typed in a directive.
	DevMode              bool          // Enables verbose logging and developer tools.
	ConfigPath           string        // Explicit config file (--config).
}

// Config is the global configuration instance.
var Config Configuration

// FileConfig mirrors Configuration for TOML files. Nil fields are unset.
type FileConfig struct {
	GutterWidth *int    `toml:"gutter_width"`
	TabWidth    *int    `toml:"tab_width"`
	FuzzyHeight *int    `toml:"fuzzy_height"`
	Leader      *string `toml:"leader"`
	Log         *bool   `toml:"log"`
	LogPath     *string `toml:"log_path"`
	LogLevel    *string `toml:"log_level"`
	NumLogs     *int    `toml:"num_logs"`
	FileCheck   *string `toml:"file_check_interval"`

	Templates struct {
		Roots        []string `toml:"roots"`
		Ext          *string  `toml:"ext"`
		SlashTrigger *bool    `toml:"slash_trigger"`
	} `toml:"templates"`
}

var leaderKey string

// BindFlags registers the configuration flags on fs with their defaults.
func BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&Config.GutterWidth, "gutter-width", 7, "Width of the gutter")
	fs.IntVar(&Config.DefaultTabWidth, "tab-width", 4, "Default tab width")
	fs.IntVar(&Config.FuzzyFinderHeight, "fuzzy-height", 8, "Height of fuzzy finder")
	fs.StringVar(&leaderKey, "leader", "\\", "Leader key")
	fs.BoolVar(&Config.UseLogFile, "log", false, "Enable logging to file")
	fs.StringVar(&Config.LogFilePath, "log-path", filepath.Join(os.TempDir(), "hbsq-debug.log"), "Path to log file")
	fs.StringVar(&Config.LogLevel, "log-level", "debug", "Log level (trace, debug, info, warn, error)")
	fs.IntVar(&Config.NumLogsInDebugWindow, "num-logs", 10, "Number of logs in debug window")
	fs.DurationVar(&Config.FileCheckInterval, "file-check-interval", 2*time.Second, "File check interval")
	fs.StringSliceVarP(&Config.TemplateRoots, "root", "r", []string{"."}, "Template root directory (repeatable)")
	fs.StringVar(&Config.PartialExt, "ext", ".hbs", "Partial file extension")
	fs.BoolVar(&Config.SlashTrigger, "slash-trigger", true, "Open completion when '/' is typed in a partial path")
	fs.BoolVar(&Config.DevMode, "dev", false, "Enable development mode")
	fs.StringVar(&Config.ConfigPath, "config", "", "Path to a config.toml file")
}

// LoadConfig merges the config files into Config. Flags the user set on the
// command line keep their values.
func LoadConfig(fs *pflag.FlagSet, logger hclog.Logger) error {
	var merged FileConfig
	for _, path := range configFiles(Config.ConfigPath) {
		fc, err := readConfigFile(path, logger)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path != Config.ConfigPath {
				continue
			}
			return err
		}
		mergeFileConfig(&merged, fc)
		logger.Debug("loaded config file", "path", path)
	}

	if err := applyFileConfig(&merged, fs); err != nil {
		return err
	}

	if len(leaderKey) > 0 {
		Config.LeaderKey = []rune(leaderKey)[0]
	}
	if Config.PartialExt != "" && Config.PartialExt[0] != '.' {
		Config.PartialExt = "." + Config.PartialExt
	}
	return nil
}

// configFiles lists candidate config files from lowest to highest priority.
func configFiles(explicit string) []string {
	var files []string
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, configDirName, configFileName))
	}
	files = append(files, projectFileName)
	if explicit != "" {
		files = append(files, explicit)
	}
	return files
}

// readConfigFile decodes path. Unknown keys are logged and ignored.
func readConfigFile(path string, logger hclog.Logger) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		logger.Warn("unknown keys in config file", "path", path, "detail", strict.String())

		fc = FileConfig{}
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return &fc, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	if src.GutterWidth != nil {
		dst.GutterWidth = src.GutterWidth
	}
	if src.TabWidth != nil {
		dst.TabWidth = src.TabWidth
	}
	if src.FuzzyHeight != nil {
		dst.FuzzyHeight = src.FuzzyHeight
	}
	if src.Leader != nil {
		dst.Leader = src.Leader
	}
	if src.Log != nil {
		dst.Log = src.Log
	}
	if src.LogPath != nil {
		dst.LogPath = src.LogPath
	}
	if src.LogLevel != nil {
		dst.LogLevel = src.LogLevel
	}
	if src.NumLogs != nil {
		dst.NumLogs = src.NumLogs
	}
	if src.FileCheck != nil {
		dst.FileCheck = src.FileCheck
	}
	if src.Templates.Roots != nil {
		dst.Templates.Roots = src.Templates.Roots
	}
	if src.Templates.Ext != nil {
		dst.Templates.Ext = src.Templates.Ext
	}
	if src.Templates.SlashTrigger != nil {
		dst.Templates.SlashTrigger = src.Templates.SlashTrigger
	}
}

// applyFileConfig copies fc into Config for every flag not set explicitly.
func applyFileConfig(fc *FileConfig, fs *pflag.FlagSet) error {
	unset := func(name string) bool { return fs == nil || !fs.Changed(name) }

	if fc.GutterWidth != nil && unset("gutter-width") {
		Config.GutterWidth = *fc.GutterWidth
	}
	if fc.TabWidth != nil && unset("tab-width") {
		Config.DefaultTabWidth = *fc.TabWidth
	}
	if fc.FuzzyHeight != nil && unset("fuzzy-height") {
		Config.FuzzyFinderHeight = *fc.FuzzyHeight
	}
	if fc.Leader != nil && unset("leader") {
		leaderKey = *fc.Leader
	}
	if fc.Log != nil && unset("log") {
		Config.UseLogFile = *fc.Log
	}
	if fc.LogPath != nil && unset("log-path") {
		Config.LogFilePath = *fc.LogPath
	}
	if fc.LogLevel != nil && unset("log-level") {
		Config.LogLevel = *fc.LogLevel
	}
	if fc.NumLogs != nil && unset("num-logs") {
		Config.NumLogsInDebugWindow = *fc.NumLogs
	}
	if fc.FileCheck != nil && unset("file-check-interval") {
		d, err := time.ParseDuration(*fc.FileCheck)
		if err != nil {
			return fmt.Errorf("invalid file_check_interval %q: %w", *fc.FileCheck, err)
		}
		Config.FileCheckInterval = d
	}
	if fc.Templates.Roots != nil && unset("root") {
		Config.TemplateRoots = fc.Templates.Roots
	}
	if fc.Templates.Ext != nil && unset("ext") {
		Config.PartialExt = *fc.Templates.Ext
	}
	if fc.Templates.SlashTrigger != nil && unset("slash-trigger") {
		Config.SlashTrigger = *fc.Templates.SlashTrigger
	}
	return nil
}

// newLogger builds the process logger from Config, writing to w.
func newLogger(name string, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(Config.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Debug
	}
	if Config.DevMode {
		level = hclog.Trace
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: w,
	})
}
