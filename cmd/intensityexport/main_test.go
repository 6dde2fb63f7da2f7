package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

const sample = `a b c 0 d e 10 20
a b c 0 d e 20 30
a b c 1 d e 5 5
a b c 3 d e 100 200
`

func setup(t *testing.T) (dir, input string) {
	t.Helper()
	restore := logging.SetOutput(&bytes.Buffer{}, 0)
	t.Cleanup(restore)
	dir = t.TempDir()
	input = filepath.Join(dir, "scan.log")
	if err := os.WriteFile(input, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir, input
}

func TestRun_ExportEngines(t *testing.T) {
	dir, input := setup(t)
	cases := []struct {
		args []string
		file string
	}{
		{[]string{"-out", filepath.Join(dir, "plot.png")}, "plot.png"},
		{[]string{"-out", filepath.Join(dir, "out", "plot.svg"), "-viewport", "0.5,2.5,0,50"}, "out/plot.svg"},
		{[]string{"-engine", "chart", "-width", "500", "-height", "250", "-out", filepath.Join(dir, "chart.png")}, "chart.png"},
	}
	for _, c := range cases {
		var out, errb bytes.Buffer
		if code := run(context.Background(), append(c.args, input), &out, &errb); code != 0 {
			t.Fatalf("%v: exit %d stderr %s", c.args, code, errb.String())
		}
		fi, err := os.Stat(filepath.Join(dir, c.file))
		if err != nil || fi.Size() == 0 {
			t.Fatalf("%s not written: %v", c.file, err)
		}
	}
	for name, want := range map[string][2]int{"chart.png": {500, 250}, "plot.png": {1400, 600}} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil || cfg.Width != want[0] || cfg.Height != want[1] {
			t.Fatalf("%s is %dx%d, want %dx%d (err=%v)", name, cfg.Width, cfg.Height, want[0], want[1], err)
		}
	}
}

func TestRun_ScriptWritesOneFilePerView(t *testing.T) {
	dir, input := setup(t)
	script := filepath.Join(dir, "gestures.txt")
	os.WriteFile(script, []byte("z 0.5 4\nA 2.5 30\nx 1 1\nu\nq\n"), 0o644)
	var out, errb bytes.Buffer
	code := run(context.Background(), []string{"-script", script, "-out", filepath.Join(dir, "frames", "view.png"), input}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d stderr %s", code, errb.String())
	}
	if out.String() != "wrote 3 views\n" {
		t.Fatalf("stdout %q", out.String())
	}
	for _, name := range []string{"view-001.png", "view-002.png", "view-003.png"} {
		if _, err := os.Stat(filepath.Join(dir, "frames", name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frames", "view-004.png")); err == nil {
		t.Fatalf("unexpected fourth view")
	}
}

func TestRun_Errors(t *testing.T) {
	dir, input := setup(t)
	cases := map[string][]string{
		"no out":       {input},
		"no input":     {"-out", filepath.Join(dir, "x.png")},
		"bad engine":   {"-engine", "ascii", "-out", filepath.Join(dir, "x.png"), input},
		"chart as svg": {"-engine", "chart", "-out", filepath.Join(dir, "x.svg"), input},
		"bad viewport": {"-viewport", "1,1,0,1", "-out", filepath.Join(dir, "x.png"), input},
		"missing file": {"-out", filepath.Join(dir, "x.png"), filepath.Join(dir, "nope.log")},
	}
	for name, args := range cases {
		var out, errb bytes.Buffer
		if code := run(context.Background(), args, &out, &errb); code != 1 {
			t.Fatalf("%s: exit %d want 1", name, code)
		}
		if errb.Len() == 0 {
			t.Fatalf("%s: expected a message on stderr", name)
		}
	}
}

func TestParseViewport(t *testing.T) {
	vp, err := parseViewport(" 1, 5 ,-2,3.5")
	if err != nil || vp != (viewport.Viewport{XMin: 1, XMax: 5, YMin: -2, YMax: 3.5}) {
		t.Fatalf("got %v err=%v", vp, err)
	}
	for _, in := range []string{"", "1,2,3", "a,2,3,4", "5,1,0,1"} {
		_, err := parseViewport(in)
		if err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
	if _, err := parseViewport("0,1,2,2"); !errors.Is(err, viewport.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestFramePath(t *testing.T) {
	cases := map[string]string{
		"plot.png":        "plot-007.png",
		"/tmp/a/view.svg": "/tmp/a/view-007.svg",
		"noext":           "noext-007",
	}
	for in, want := range cases {
		if got := framePath(in, 7); got != want {
			t.Fatalf("framePath(%q)=%q want %q", in, got, want)
		}
	}
	if !strings.HasSuffix(framePath("x.pdf", 12), "-012.pdf") {
		t.Fatalf("padding")
	}
}
