// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/navwar/gomirror/pkg/fs"
	"github.com/navwar/gomirror/pkg/lfs"
	"github.com/navwar/gomirror/pkg/log"
	"github.com/navwar/gomirror/pkg/schedule"
	"github.com/navwar/gomirror/pkg/ts"
)

const (
	GoMirrorVersion = "0.0.1"
)

const (
	DefaultLogPerm    = "0644"
	DefaultThreads    = 1
	DefaultTimeLayout = "Log"
	DefaultTimeZone   = "Local"
	EnvPrefix         = "GOMIRROR"
)

// Debug Flags
const (
	flagDebug = "debug"
)

// Sync Flags
const (
	flagExclude = "exclude"
	flagOnce    = "once"
	flagThreads = "threads"
)

// Log Flags
const (
	flagLogFormat  = "log-format"
	flagLogPerm    = "log-perm"
	flagTimeLayout = "time-layout"
	flagTimeZone   = "time-zone"
)

var errEntries = errors.New("one or more entries could not be synchronized")

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "print debug messages")
}

func initSyncFlags(flag *pflag.FlagSet) {
	flag.IntP(flagThreads, "n", DefaultThreads, "maximum number of files compared or copied in parallel.  Use -1 for the number of CPUs.")
	flag.StringP(flagExclude, "e", "", "a colon-separated list of patterns for paths to exclude, e.g., *.tmp:cache/**.  Patterns match the relative path or the base name.")
	flag.Bool(flagOnce, false, "run a single pass and exit")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.StringP(flagLogFormat, "f", log.FormatText, "output log format.  Either jsonl or text.")
	flag.String(flagLogPerm, DefaultLogPerm, "file permissions for log file as unix file mode.")
	flag.StringP(flagTimeLayout, "t", DefaultTimeLayout, "the layout to use for log timestamps.  Use go layout format, or the name of a layout.  Use gomirror layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", DefaultTimeZone, "the timezone to use for log timestamps")
}

func initRootCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initSyncFlags(flag)
	initLogFlags(flag)
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logFormat := v.GetString(flagLogFormat)
	if logFormat != log.FormatText && logFormat != log.FormatJSONL {
		return fmt.Errorf("invalid log format %q, expecting one of %q", logFormat, log.Formats)
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	if len(v.GetString(flagTimeLayout)) == 0 {
		return fmt.Errorf("time layout is missing")
	}
	if _, err := ts.ParseLocation(v.GetString(flagTimeZone)); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", v.GetString(flagTimeZone), err)
	}
	return nil
}

func checkConfig(v *viper.Viper, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("expecting 4 positional arguments for source, replica, interval, and log file, but found %d arguments", len(args))
	}
	for i, name := range []string{"source", "replica", "interval", "log file"} {
		if len(args[i]) == 0 {
			return fmt.Errorf("%s is missing", name)
		}
	}
	if _, err := parseInterval(args[2]); err != nil {
		return err
	}
	if threads := v.GetInt(flagThreads); threads == 0 || threads < -1 {
		return fmt.Errorf("invalid number of threads %d, expecting -1 or a positive number", threads)
	}
	if err := fs.CheckExclude(parseExclude(v.GetString(flagExclude))); err != nil {
		return err
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

// parseInterval parses a non-negative whole number of seconds.
func parseInterval(str string) (time.Duration, error) {
	seconds, err := strconv.ParseUint(str, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q, expecting a non-negative whole number of seconds", str)
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseExclude(str string) []string {
	exclude := []string{}
	for _, pattern := range strings.Split(str, ":") {
		if pattern = strings.TrimSpace(pattern); len(pattern) > 0 {
			exclude = append(exclude, pattern)
		}
	}
	return exclude
}

func parseThreads(threads int) int {
	if threads == -1 {
		return runtime.NumCPU()
	}
	return threads
}

// initDirectories resolves the source and replica to absolute paths,
// checks that the source is an existing directory outside of the replica,
// and creates the replica if it does not exist.
func initDirectories(source string, replica string) (string, string, error) {
	sourcePath, err := filepath.Abs(source)
	if err != nil {
		return "", "", fmt.Errorf("error resolving source %q: %w", source, err)
	}
	replicaPath, err := filepath.Abs(replica)
	if err != nil {
		return "", "", fmt.Errorf("error resolving replica %q: %w", replica, err)
	}

	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("source directory %q does not exist", sourcePath)
		}
		return "", "", fmt.Errorf("error stating source directory %q: %w", sourcePath, err)
	}
	if !sourceInfo.IsDir() {
		return "", "", fmt.Errorf("source %q is not a directory", sourcePath)
	}

	// check for cycle errors
	if err := lfs.Check(sourcePath, replicaPath); err != nil {
		return "", "", err
	}

	if replicaInfo, err := os.Stat(replicaPath); err == nil && !replicaInfo.IsDir() {
		return "", "", fmt.Errorf("replica %q is not a directory", replicaPath)
	}
	if err := os.MkdirAll(replicaPath, 0755); err != nil {
		return "", "", fmt.Errorf("error creating replica directory %q: %w", replicaPath, err)
	}

	// check for cycle errors through symbolic links
	resolvedSourcePath, err := filepath.EvalSymlinks(sourcePath)
	if err != nil {
		return "", "", fmt.Errorf("error resolving source %q: %w", sourcePath, err)
	}
	resolvedReplicaPath, err := filepath.EvalSymlinks(replicaPath)
	if err != nil {
		return "", "", fmt.Errorf("error resolving replica %q: %w", replicaPath, err)
	}
	if err := lfs.Check(resolvedSourcePath, resolvedReplicaPath); err != nil {
		return "", "", err
	}

	return sourcePath, replicaPath, nil
}

// resolveLogFile returns the absolute path of the log file with symbolic links resolved.
// The log file does not need to exist, but its parent directory does.
func resolveLogFile(logFile string) (string, error) {
	logPath, err := filepath.Abs(logFile)
	if err != nil {
		return "", fmt.Errorf("error resolving log file %q: %w", logFile, err)
	}
	if resolved, err := filepath.EvalSymlinks(logPath); err == nil {
		return resolved, nil
	}
	parent := lfs.Dir(logPath)
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return "", fmt.Errorf("parent directory %q for log file does not exist", parent)
	}
	resolvedParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return "", fmt.Errorf("error resolving parent directory %q for log file: %w", parent, err)
	}
	return filepath.Join(resolvedParent, filepath.Base(logPath)), nil
}

// checkLogFile returns an error if the log file is inside the source or the replica.
// A log file in the replica would be removed by the first pass,
// and a log file in the source would be copied again by every pass.
func checkLogFile(logFile string, source string, replica string) error {
	logPath, err := resolveLogFile(logFile)
	if err != nil {
		return err
	}
	for _, dir := range []struct {
		name string
		path string
	}{
		{name: "source", path: source},
		{name: "replica", path: replica},
	} {
		resolved, err := filepath.EvalSymlinks(dir.path)
		if err != nil {
			return fmt.Errorf("error resolving %s %q: %w", dir.name, dir.path, err)
		}
		if lfs.Contains(resolved, logPath) {
			return fmt.Errorf("log file %q must not be inside the %s %q", logFile, dir.name, dir.path)
		}
	}
	return nil
}

type InitLoggerInput struct {
	Path     string
	Perm     string
	Format   string
	Layout   string
	TimeZone string
	Stdout   io.Writer
}

// initLogger opens the log file in append mode and returns a logger
// that writes each line to the log file and stdout.
func initLogger(input *InitLoggerInput) (*log.SimpleLogger, io.Closer, error) {
	fileMode := os.FileMode(0600)

	if len(input.Perm) > 0 {
		fm, err := strconv.ParseUint(input.Perm, 8, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing file permissions for log file from %q", input.Perm)
		}
		fileMode = os.FileMode(fm)
	}

	if parent := lfs.Dir(input.Path); parent != "." {
		if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
			return nil, nil, fmt.Errorf("parent directory %q for log file does not exist", parent)
		}
	}

	f, err := os.OpenFile(input.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening log file %q: %w", input.Path, err)
	}

	location, err := ts.ParseLocation(input.TimeZone)
	if err != nil {
		_ = f.Close() // silently close log file
		return nil, nil, fmt.Errorf("error parsing time zone %q: %w", input.TimeZone, err)
	}

	logger := log.NewSimpleLogger(&log.SimpleLoggerInput{
		Writer:   io.MultiWriter(f, input.Stdout),
		Format:   input.Format,
		Layout:   ts.ParseLayout(input.Layout),
		Location: location,
	})

	return logger, f, nil
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:                   `gomirror [flags] SOURCE_DIR REPLICA_DIR INTERVAL_SECONDS LOG_FILE`,
		DisableFlagsInUseLine: true,
		Short:                 "gomirror periodically mirrors a source directory onto a replica directory.",
		Long: strings.Join([]string{
			"gomirror is a simple command line program for one-way mirroring of a source directory onto a replica directory.",
			"Every INTERVAL_SECONDS, directories and files missing or changed in the replica are copied from the source,",
			"and entries of the replica that do not exist in the source are removed.",
			"Every change is logged to LOG_FILE and stdout.  LOG_FILE must be outside of SOURCE_DIR and REPLICA_DIR.",
			"If SOURCE_DIR is named \"layouts\" or \"version\", put \"--\" before the arguments, e.g., gomirror -- version replica 60 gomirror.log.",
		}, "\n"),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkConfig(v, args); errConfig != nil {
				return &fs.ConfigError{Err: errConfig}
			}

			interval, _ := parseInterval(args[2])

			sourcePath, replicaPath, err := initDirectories(args[0], args[1])
			if err != nil {
				return &fs.ConfigError{Err: err}
			}

			if err := checkLogFile(args[3], sourcePath, replicaPath); err != nil {
				return &fs.ConfigError{Err: err}
			}

			logger, logFile, err := initLogger(&InitLoggerInput{
				Path:     args[3],
				Perm:     v.GetString(flagLogPerm),
				Format:   v.GetString(flagLogFormat),
				Layout:   v.GetString(flagTimeLayout),
				TimeZone: v.GetString(flagTimeZone),
				Stdout:   cmd.OutOrStdout(),
			})
			if err != nil {
				return &fs.ConfigError{Err: fmt.Errorf("error initializing logger: %w", err)}
			}
			defer logFile.Close()

			debug := v.GetBool(flagDebug)
			threads := parseThreads(v.GetInt(flagThreads))

			if debug {
				_ = logger.Log("Configuration", map[string]interface{}{
					"source":   sourcePath,
					"replica":  replicaPath,
					"interval": interval.String(),
					"threads":  threads,
				})
			}

			syncInput := &fs.SyncInput{
				SourceFileSystem:  lfs.NewReadOnlyLocalFileSystem(sourcePath),
				ReplicaFileSystem: lfs.NewLocalFileSystem(replicaPath),
				Exclude:           parseExclude(v.GetString(flagExclude)),
				Logger:            logger,
				Debug:             debug,
				MaxThreads:        threads,
			}

			scheduler := schedule.NewScheduler(&schedule.SchedulerInput{
				Interval: interval,
				Logger:   logger,
			})

			pass := func(ctx context.Context) (*fs.SyncReport, error) {
				return fs.Sync(ctx, syncInput)
			}

			ctx := cmd.Context()

			if v.GetBool(flagOnce) {
				report, err := scheduler.RunOnce(ctx, pass)
				if err != nil {
					return err
				}
				if report.Err() != nil {
					return errEntries
				}
				return nil
			}

			// stopped by a signal
			if err := scheduler.Run(ctx, pass); err != nil && ctx.Err() == nil {
				return err
			}

			return nil
		},
	}
	initRootCommandFlags(rootCommand.Flags())

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ts.LayoutNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), GoMirrorVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, versionCommand)

	return rootCommand
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCommand := newRootCommand()

	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gomirror: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"gomirror --help\" for more information.")
		stop()
		os.Exit(1)
	}
}
