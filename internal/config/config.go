// Package config loads the configuration of the lpmc commands and their problem files.
//
// Values are resolved in viper's order: flag defaults, then the config file given with
// --config, then LPMC_* environment variables, then flags set on the command line.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by both commands.
const EnvPrefix = "LPMC"

// Flags shared by both commands.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
	FlagMetrics  = "metrics"
	FlagSysInfo  = "sysinfo"
)

func addCommonFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a config file (yaml, json or toml)")
	fs.String(FlagLogLevel, "info", "log level: error, info, debug or trace")
	fs.Bool(FlagMetrics, false, "print Prometheus metrics in text format after the report")
	fs.Bool(FlagSysInfo, false, "print a host summary before the report")
}

// newViper returns a viper instance bound to fs and the environment, with the config file read if one is set.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}
	return v, nil
}

// Common holds settings shared by both commands.
type Common struct {
	LogLevel string
	Metrics  bool
	SysInfo  bool
}

func loadCommon(v *viper.Viper) Common {
	return Common{
		LogLevel: v.GetString(FlagLogLevel),
		Metrics:  v.GetBool(FlagMetrics),
		SysInfo:  v.GetBool(FlagSysInfo),
	}
}

// splitList flattens list values that may arrive as one comma or space separated string
// (environment variables) or as separate elements (flags, config files).
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, f := range strings.FieldsFunc(r, func(c rune) bool { return c == ',' || c == ' ' }) {
			out = append(out, strings.TrimSpace(f))
		}
	}
	return out
}

func parseFloats(key string, raw []string) ([]float64, error) {
	items := splitList(raw)
	out := make([]float64, 0, len(items))
	for _, s := range items {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", key, s)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseInts(key string, raw []string) ([]int, error) {
	items := splitList(raw)
	out := make([]int, 0, len(items))
	for _, s := range items {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", key, s)
		}
		out = append(out, n)
	}
	return out, nil
}
