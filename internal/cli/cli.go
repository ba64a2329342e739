package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/algogrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// defaults are read from the environment and seed the flag defaults.
type defaults struct {
	Config    string `env:"CONFIG"`
	Output    string `env:"OUTPUT" envDefault:"json"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Resolve   bool   `env:"RESOLVE" envDefault:"false"`
}

const envPrefix = "ALGOGRID_"

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// environ supplies the environment variables; nil means none are set.
func Parse(args []string, environ map[string]string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var def defaults
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(&def, env.Options{Environment: environ, Prefix: envPrefix}); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}

	flagSet := pflag.NewFlagSet("algogrid", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
AlgoGrid - expands algorithm module hyperparameters into trial sets.

Usage:
  algogrid [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to an algorithm file (.yaml, .yml, .json, .jsonc or .hcl).

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprintf(output, "\nEvery option also reads %s<NAME> from the environment, e.g. %sLOG_LEVEL.\n", envPrefix, envPrefix)
	}

	configFlag := flagSet.StringP("config", "c", def.Config, "Path to the algorithm configuration file.")
	resolveFlag := flagSet.Bool("resolve", def.Resolve, "Resolve every trial's implementation once (dry run).")
	outputFlag := flagSet.StringP("output", "o", def.Output, "Report format. Options: 'json', 'yaml' or 'cbor'.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *configFlag
	if flagSet.NArg() > 0 && !flagSet.Changed("config") {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:   path,
		Resolve:      *resolveFlag,
		OutputFormat: strings.ToLower(*outputFlag),
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
