package cmd

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

const (
	IntsetCliHisFileEnv     = "INTSET_CLI_HISTFILE"
	IntsetCliHisFileDefault = ".intsetcli_history"
)

// Config holds the command line options of intset-cli.
type Config struct {
	LogLevel    string
	Tagged      bool   // sets accept 0 and the maximum key
	MetricsAddr string // serve /metrics here when set
	HistoryFile string
	Raw         bool
	NoRaw       bool
}

func (cfg *Config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "Log level: debug, info, warn or error.")
	fs.BoolVar(&cfg.Tagged, "tagged", false, "Create sets that tag slot states, so 0 and 4294967295 are valid keys.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	fs.StringVar(&cfg.HistoryFile, "history-file", "", "REPL history file (default $"+IntsetCliHisFileEnv+" or ~/"+IntsetCliHisFileDefault+").")
	fs.BoolVar(&cfg.Raw, "raw", false, "Use raw formatting for replies (default when STDOUT is not a tty).")
	fs.BoolVar(&cfg.NoRaw, "no-raw", false, "Force formatted output even when STDOUT is not a tty.")
}

// rawOutput decides the reply format for out.
func (cfg *Config) rawOutput(out *os.File) bool {
	switch {
	case cfg.NoRaw:
		return false
	case cfg.Raw:
		return true
	}
	return !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd())
}

// historyPath resolves the history file: the flag, then the environment,
// then a dotfile in the home directory. "/dev/null" in the environment
// disables history files.
func (cfg *Config) historyPath() string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	return getDotfilePath(IntsetCliHisFileEnv, IntsetCliHisFileDefault)
}

func getDotfilePath(envOverride, dotFilename string) string {
	if path, ok := os.LookupEnv(envOverride); ok {
		if path == "/dev/null" {
			return ""
		}
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dotFilename)
}
