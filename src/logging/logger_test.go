package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf, 0)
	defer restore()
	SetLogLevel("info")

	msg := "loaded /data/run_100%_rfi.txt (100.0% of lines parsed)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of lines parsed)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf, 0)
	defer restore()
	defer SetLogLevel("info")

	SetLogLevel("warn")
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below warn leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("expected warn and error lines, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{" INFO ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ParseLevel(%q) err=%v want ok=%v", c.in, err, c.ok)
		}
		if got != c.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", c.in, got, c.want)
		}
	}
}
