package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	l, err := New("warn", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = l.Sync() }()

	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info enabled on a warn logger")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("error disabled on a warn logger")
	}
}
