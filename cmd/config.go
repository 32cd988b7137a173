// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bonial-oss/deptriage/internal/risk"
)

const (
	envPrefix      = "DEPTRIAGE"
	configName     = ".deptriage"
	defaultTimeout = 2 * time.Minute
)

// Interface modes.
const (
	interfaceTerminal = "terminal"
	interfaceTUI      = "tui"
	interfaceJSON     = "json"
)

// Options holds all CLI flag values after flags, environment and the config
// file have been merged.
type Options struct {
	MinSeverity string
	OnlyDirect  bool
	OnlyFixable bool
	Interface   string
	FailOn      string
	Input       string
	Dir         string
	Timeout     time.Duration
	Verbose     bool
}

// settings is the validated form of Options.
type settings struct {
	criteria  risk.Criteria
	iface     string
	failOn    risk.Severity
	hasFailOn bool
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("min-severity", "low", "Only show packages with at least this severity: low, moderate, high, critical")
	flags.Bool("only-direct", false, "Only show direct dependencies")
	flags.Bool("only-fixable", false, "Only show packages with a fix available")
	flags.StringP("interface", "i", interfaceTUI, "Presentation: tui, terminal, json")
	flags.String("fail-on", "", "Exit code 1 if any shown package has at least this severity")
	flags.StringP("input", "f", "", "Read the audit report from a file (- for stdin) instead of running npm")
	flags.String("dir", ".", "Project directory to run npm audit in")
	flags.Duration("timeout", defaultTimeout, "Maximum time to wait for npm audit")
	flags.BoolP("verbose", "v", false, "Enable debug logging on stderr")
	flags.String("config", "", "Config file (default is ./.deptriage.yaml)")
}

// loadConfig binds the command's flags to a fresh viper instance and merges
// DEPTRIAGE_* environment variables and the optional YAML config file.
// Precedence is flag, environment, config file, default. A .env file in the
// working directory is loaded first; it never overrides variables already set.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

func optionsFrom(v *viper.Viper) Options {
	return Options{
		MinSeverity: v.GetString("min-severity"),
		OnlyDirect:  v.GetBool("only-direct"),
		OnlyFixable: v.GetBool("only-fixable"),
		Interface:   strings.ToLower(strings.TrimSpace(v.GetString("interface"))),
		FailOn:      v.GetString("fail-on"),
		Input:       v.GetString("input"),
		Dir:         v.GetString("dir"),
		Timeout:     v.GetDuration("timeout"),
		Verbose:     v.GetBool("verbose"),
	}
}

// validate checks enum values. Invalid options are usage errors (exit 2).
func (o Options) validate() (settings, error) {
	var s settings

	minSeverity, err := risk.ParseSeverity(o.MinSeverity)
	if err != nil {
		return s, &ExitError{Code: 2, Message: fmt.Sprintf("--min-severity: %v", err)}
	}
	s.criteria = risk.Criteria{
		MinSeverity: minSeverity,
		OnlyDirect:  o.OnlyDirect,
		OnlyFixable: o.OnlyFixable,
	}

	switch o.Interface {
	case interfaceTUI, interfaceTerminal, interfaceJSON:
		s.iface = o.Interface
	default:
		return s, &ExitError{
			Code:    2,
			Message: fmt.Sprintf("unsupported interface: %s (want tui, terminal or json)", o.Interface),
		}
	}

	if strings.TrimSpace(o.FailOn) != "" {
		s.failOn, err = risk.ParseSeverity(o.FailOn)
		if err != nil {
			return s, &ExitError{Code: 2, Message: fmt.Sprintf("--fail-on: %v", err)}
		}
		s.hasFailOn = true
	}

	if o.Timeout <= 0 {
		return s, &ExitError{Code: 2, Message: fmt.Sprintf("--timeout must be positive, got %s", o.Timeout)}
	}
	return s, nil
}
