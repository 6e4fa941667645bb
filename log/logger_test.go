package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Warning)
	logger.Notice("hidden")
	logger.Warningf("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected notice message to be filtered at warning level; got %q", out)
	}
	if !strings.Contains(out, "shown 1") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message tagged with the module name; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Fatalf("expected debug message at debug level; got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" Warning ")
	if err != nil {
		t.Fatal(err)
	}
	if level != Warning {
		t.Fatalf("expected level %d; got %d", Warning, level)
	}

	expError := `log: unknown level "loud"`
	if _, err = ParseLevel("loud"); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}
