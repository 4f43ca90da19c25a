package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesToConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var console bytes.Buffer
	if err := Init(Options{Verbose: true, Dir: dir, Console: &console}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}

	log.Info().Str("component", "test").Msg("hello")

	if !strings.Contains(console.String(), "hello") {
		t.Errorf("console output = %q", console.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`"app":"skoview"`)) {
		t.Errorf("log file = %s", data)
	}
}

func TestInit_LevelFromEnvironment(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Setenv("SKOVIEW_LOG_LEVEL", "warn")

	if err := Init(Options{Verbose: true, Dir: t.TempDir(), Console: &bytes.Buffer{}}); err != nil {
		t.Fatal(err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", zerolog.GlobalLevel())
	}

	t.Setenv("SKOVIEW_LOG_LEVEL", "loud")
	if err := Init(Options{Dir: t.TempDir(), Console: &bytes.Buffer{}}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestDir(t *testing.T) {
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("DATA_PATH", "/srv/skoview")
	if got := Dir(); got != filepath.Join("/srv/skoview", "logs") {
		t.Errorf("Dir() = %q", got)
	}

	t.Setenv("LOGS_FOLDER", "/var/log/skoview")
	if got := Dir(); got != "/var/log/skoview" {
		t.Errorf("Dir() = %q", got)
	}
}
