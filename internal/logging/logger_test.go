package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/linkframe/internal/protocol"
)

// observe installs an in-memory logger for the duration of the test.
func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	prev := logger
	t.Cleanup(func() { logger = prev })

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger enabled without a level")
	}
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	if err := Initialize("chatty"); err == nil {
		t.Error("Initialize(chatty) succeeded, want error")
	}
}

func TestInitializeWritesRotatingFile(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	prev := logger
	t.Cleanup(func() { logger = prev })

	path := filepath.Join(t.TempDir(), "linksim.log")
	if err := InitializeWithOptions(Options{File: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("InitializeWithOptions() error = %v", err)
	}
	Info("written to file")
	Debug("below the default file level")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written to file"`) {
		t.Errorf("log file missing entry: %s", data)
	}
	if strings.Contains(string(data), "below the default file level") {
		t.Errorf("debug entry written at info level: %s", data)
	}
}

func TestDumps(t *testing.T) {
	if got := hexDump([]byte("CS")); got != "4353" {
		t.Errorf("hexDump(CS) = %q, want %q", got, "4353")
	}
	if got := asciiDump([]byte{'a', 0x00, '}'}); got != "a.}" {
		t.Errorf("asciiDump() = %q, want %q", got, "a.}")
	}

	long := make([]byte, dumpLimit+10)
	if got := hexDump(long); !strings.HasSuffix(got, "...") || len(got) != 2*dumpLimit+3 {
		t.Errorf("hexDump(long) length = %d, want capped", len(got))
	}
	if got := asciiDump(long); len(got) != dumpLimit {
		t.Errorf("asciiDump(long) length = %d, want %d", len(got), dumpLimit)
	}
}

func TestLogRawBytes(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	LogRawBytes("fragment", []byte("{a}"))
	if logs.Len() != 0 {
		t.Fatalf("LogRawBytes logged %d entries at info level, want 0", logs.Len())
	}

	logs = observe(t, zapcore.DebugLevel)
	LogRawBytes("fragment", []byte{'{', 0x01, '}'})
	entries := logs.FilterMessage("fragment").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["length"] != int64(3) || fields["hex"] != "7b017d" || fields["ascii"] != "{.}" {
		t.Errorf("fields = %v", fields)
	}
}

func TestFrameObserver(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	obs := NewFrameObserver("receiver")

	obs.FrameCorrupt([]byte("CS"), 0x6d)
	obs.BytesDiscarded(4, protocol.DiscardGarbage)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	corrupt := entries[0]
	if corrupt.Level != zapcore.WarnLevel {
		t.Errorf("corrupt level = %v, want warn", corrupt.Level)
	}
	fields := corrupt.ContextMap()
	if fields["endpoint"] != "receiver" || fields["hex"] != "4353" || fields["trailer"] != "6d" {
		t.Errorf("corrupt fields = %v", fields)
	}

	discard := entries[1]
	if discard.Level != zapcore.DebugLevel {
		t.Errorf("discard level = %v, want debug", discard.Level)
	}
	if got := discard.ContextMap()["reason"]; got != "garbage" {
		t.Errorf("discard reason = %v, want garbage", got)
	}
}

func TestLogFrame(t *testing.T) {
	tags := protocol.DefaultTags()
	frame := []byte{'{', 'a', '\\', '}', 0x68, '}'}

	logs := observe(t, zapcore.InfoLevel)
	LogFrame("sent", tags, frame)
	if logs.Len() != 0 {
		t.Fatalf("LogFrame logged %d entries at info level, want 0", logs.Len())
	}

	logs = observe(t, zapcore.DebugLevel)
	LogFrame("sent", tags, frame)
	entries := logs.FilterMessage("Frame").All()
	if len(entries) != 1 {
		t.Fatalf("got %d frame entries, want 1", len(entries))
	}
	want := "<start>a<esc>}<trailer 0x68><stop>"
	if got := entries[0].ContextMap()["frame"]; got != want {
		t.Errorf("frame = %v, want %q", got, want)
	}
}
