package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "skoview.log"

// Options controls where and how much skoview logs.
type Options struct {
	Verbose bool
	// Dir overrides the log directory. Empty means Dir().
	Dir string
	// Console receives human readable output. Nil means os.Stderr, since
	// stdout carries the MCP protocol or command output.
	Console io.Writer
}

// Init installs the global logger writing to the console and to a rotating
// file in the log directory. SKOVIEW_LOG_LEVEL, when set, wins over Verbose.
func Init(opts Options) error {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	if name := os.Getenv("SKOVIEW_LOG_LEVEL"); name != "" {
		l, err := zerolog.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("invalid SKOVIEW_LOG_LEVEL %q: %w", name, err)
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	dir := opts.Dir
	if dir == "" {
		dir = Dir()
	}
	if err := ensureWritable(dir); err != nil {
		return err
	}

	console := opts.Console
	color := false
	if console == nil {
		console = os.Stderr
		color = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339, NoColor: !color},
		file,
	)).With().Timestamp().Str("app", "skoview").Logger()

	log.Debug().Str("dir", dir).Str("level", level.String()).Msg("Logging initialized")
	return nil
}

// Dir resolves the log directory: LOGS_FOLDER, then DATA_PATH/logs, then
// logs next to the binary. Both variables may come from the .env next to the
// binary, because logging starts before the configuration is loaded.
func Dir() string {
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		return filepath.Join(dataPath, "logs")
	}
	if exeErr == nil {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
