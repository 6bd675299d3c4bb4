package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"printcode/pkg/combine"
	"printcode/pkg/config"
	"printcode/pkg/logging"
	"printcode/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// flagKeys maps CLI flag names to the config keys they override.
var flagKeys = map[string]string{
	"type":            config.KeyTypes,
	"exclude":         config.KeyExclude,
	"max-bytes":       config.KeyMaxBytes,
	"follow-symlinks": config.KeyFollowSymlinks,
	"no-gitignore":    config.KeyNoGitignore,
	"hidden":          config.KeyHidden,
	"json":            config.KeyJSON,
	"end-marker":      config.KeyEndMarker,
	"strip-comments":  config.KeyStripComments,
	"skip-binary":     config.KeySkipBinary,
	"debug":           config.KeyDebug,
}

// RootCmd is the pc command. It takes the roots to print as positional arguments.
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pc [flags] [PATH...]",
		Short: "Print source files under one or more roots",
		Long: `pc walks each PATH (default: the current directory), honours .gitignore,
.ignore and the global git excludes, and prints every file whose extension
was selected with --type, either as delimited text blocks or as a JSON array.

Settings can also come from PC_* environment variables or a .pc.yaml file in
the working or home directory. Flags take precedence over both.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPrint,
	}

	flags := cmd.Flags()
	flags.StringSliceP("type", "t", nil, "File extension to include (repeatable or comma separated, e.g. -t go,py)")
	flags.StringSliceP("exclude", "E", nil, "Glob of paths to skip, relative to the root (repeatable or comma separated, e.g. -E 'tests/**,*.gen.py')")
	flags.Uint64("max-bytes", 0, "Skip files larger than this many bytes")
	flags.Bool("follow-symlinks", false, "Follow symbolic links")
	flags.Bool("no-gitignore", false, "Do not read .gitignore, .ignore or global git excludes")
	flags.Bool("hidden", false, "Include hidden files and directories")
	flags.Bool("json", false, "Print a JSON array instead of text blocks")
	flags.Bool("end-marker", false, "Print an END FILE line after each text block")
	flags.Bool("strip-comments", false, "Remove full-line comments")
	flags.Bool("skip-binary", false, "Skip files that look binary")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("config", "", "Config file (default: .pc.yaml in the working or home directory)")
	flags.SetNormalizeFunc(aliasFlags)

	cmd.Version = version.Get().String()
	cmd.SetVersionTemplate("pc {{.Version}}\n")

	return cmd
}

// aliasFlags lets --ext stand in for --type.
func aliasFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "ext" {
		name = "type"
	}
	return pflag.NormalizedName(name)
}

func runPrint(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}

	v, err := bindConfig(cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	cfg, err := config.FromViper(v, args)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(v.GetBool(config.KeyDebug), "pc", version.Get().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer syncLogger(logger)

	return combine.Run(cfg, cmd.OutOrStdout(), logger)
}

// bindConfig layers flags over PC_* environment variables over the config file.
func bindConfig(flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := config.NewViper(configFile)
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	if err := config.ReadConfigFile(v); err != nil {
		return nil, err
	}
	return v, nil
}

// syncLogger flushes the logger when stderr can actually be synced.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if err := logger.Sync(); err != nil {
		lowerErr := strings.ToLower(err.Error())
		if !strings.Contains(lowerErr, "invalid argument") && !strings.Contains(lowerErr, "inappropriate ioctl") {
			log.Printf("Logger sync failed: %v", err)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}

// Execute runs RootCmd against os.Args.
func Execute() error {
	return RootCmd.Execute()
}
