package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys shared by the flag bindings in cmd and the config file.
const (
	KeyTypes          = "types"
	KeyExclude        = "exclude"
	KeyMaxBytes       = "max_bytes"
	KeyFollowSymlinks = "follow_symlinks"
	KeyNoGitignore    = "no_gitignore"
	KeyHidden         = "hidden"
	KeyJSON           = "json"
	KeyEndMarker      = "end_marker"
	KeyStripComments  = "strip_comments"
	KeySkipBinary     = "skip_binary"
	KeyCommentLeaders = "comment_leaders"
	KeyDebug          = "debug"
)

// EnvPrefix is the prefix of environment overrides (PC_MAX_BYTES, PC_JSON, ...).
const EnvPrefix = "PC"

// ConfigName is the base name of the optional config file (.pc.yaml).
const ConfigName = ".pc"

// NewViper returns a viper instance that reads PC_* environment variables and,
// when configFile is empty, searches .pc.{yaml,yml,json,toml} in the working
// directory and then the home directory.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// ReadConfigFile loads the config file if one exists. A missing file is not an error
// unless it was named explicitly.
func ReadConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// FromViper builds a validated RunConfig from v. paths are the positional roots;
// when empty the current directory is used.
func FromViper(v *viper.Viper, paths []string) (*RunConfig, error) {
	exts, err := NormalizeExtensions(splitList(v.GetStringSlice(KeyTypes)))
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := &RunConfig{
		Extensions:     exts,
		Paths:          append([]string(nil), paths...),
		FollowSymlinks: v.GetBool(KeyFollowSymlinks),
		NoGitignore:    v.GetBool(KeyNoGitignore),
		Hidden:         v.GetBool(KeyHidden),
		JSON:           v.GetBool(KeyJSON),
		EndMarker:      v.GetBool(KeyEndMarker),
		StripComments:  v.GetBool(KeyStripComments),
		SkipBinary:     v.GetBool(KeySkipBinary),
		Excludes:       splitList(v.GetStringSlice(KeyExclude)),
	}

	if v.IsSet(KeyMaxBytes) {
		limit, err := parseMaxBytes(v.GetString(KeyMaxBytes))
		if err != nil {
			return nil, err
		}
		cfg.MaxBytes = &limit
	}

	if v.IsSet(KeyCommentLeaders) {
		leaders := make(map[string][]string)
		for ext := range v.GetStringMap(KeyCommentLeaders) {
			leaders[ext] = v.GetStringSlice(KeyCommentLeaders + "." + ext)
		}
		cfg.CommentLeaders = leaders
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma-separated entries so lists from environment variables
// and config files behave like repeated flags.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseMaxBytes(raw string) (uint64, error) {
	limit, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", KeyMaxBytes, raw, err)
	}
	return limit, nil
}
