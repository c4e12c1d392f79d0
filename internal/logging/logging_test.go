package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testLogger adapts *testing.T to the Logger interface, mirroring the
// teacher's revid/utils.go testLogger pattern.
type testLogger testing.T

func (tl *testLogger) Debug(msg string, args ...interface{})   { tl.Log(Debug, msg, args...) }
func (tl *testLogger) Info(msg string, args ...interface{})    { tl.Log(Info, msg, args...) }
func (tl *testLogger) Warning(msg string, args ...interface{}) { tl.Log(Warning, msg, args...) }
func (tl *testLogger) Error(msg string, args ...interface{})   { tl.Log(Error, msg, args...) }
func (tl *testLogger) Fatal(msg string, args ...interface{})   { tl.Log(Fatal, msg, args...) }
func (tl *testLogger) SetLevel(int8)                           {}
func (tl *testLogger) Log(lvl int8, msg string, args ...interface{}) {
	((*testing.T)(tl)).Log(levelName(lvl) + ": " + format(levelName(lvl), msg, args))
}

func TestFileLoggerWritesBelowThresholdIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.log")
	l := New(Config{Path: path, Level: Warning})
	defer l.Close()

	l.Debug("should not appear")
	l.Warning("should appear", "width", 256)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	got := string(data)
	if want := "should appear"; !strings.Contains(got, want) {
		t.Errorf("log file missing %q, got %q", want, got)
	}
	if strings.Contains(got, "should not appear") {
		t.Errorf("log file should not contain debug line below threshold, got %q", got)
	}
}

func TestDiscardNeverPanics(t *testing.T) {
	Discard.Debug("x")
	Discard.Log(Fatal, "y", "k", "v")
}
