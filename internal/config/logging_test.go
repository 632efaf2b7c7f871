package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogFile(t *testing.T) {
	dir := t.TempDir()

	f, err := SetupLogFile(dir, 5)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	base := filepath.Base(f.Name())
	if !strings.HasPrefix(base, logFilePrefix) || !strings.HasSuffix(base, ".log") {
		t.Errorf("log file name = %q, want %s*.log", base, logFilePrefix)
	}
}

func TestPruneOldLogsKeepsNewest(t *testing.T) {
	dir := t.TempDir()

	names := []string{
		logFilePrefix + "2026-01-01T00-00-00.log",
		logFilePrefix + "2026-01-02T00-00-00.log",
		logFilePrefix + "2026-01-03T00-00-00.log",
		"unrelated.log",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := pruneOldLogs(dir, 2); err != nil {
		t.Fatalf("pruneOldLogs() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
	for _, name := range []string{names[1], names[2], "unrelated.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should have been kept: %v", name, err)
		}
	}
}
