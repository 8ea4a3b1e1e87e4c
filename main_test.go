package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func createSampleLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "acme/widget.py", `class Widget:
    """A resizable widget."""

    def __init__(self, size):
        self.size = size

    def grow(self, amount) -> int:
        """Grow the widget."""
        return 42

    def _internal(self):
        pass
`)
	writeTestFile(t, dir, "acme/__init__.py", "")
	writeTestFile(t, dir, "acme/broken.py", "class Broken(:\n")
	return dir
}

func readDoc(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "acme_documentation.md"))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	return string(data)
}

func TestRunStatic(t *testing.T) {
	t.Parallel()
	lib := createSampleLibrary(t)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--static", "--output-dir", out, "acme", lib}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	if stdout.String() != "[!] Done\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	doc := readDoc(t, out)
	for _, want := range []string{
		"from acme import *",
		"## `Widget` (class)",
		"### `Widget.__init__` (method)",
		"size: unknown",
		"### `Widget.grow` (method)",
		"**Description**: Grow the widget.",
		"```txt\nint\n```",
		"widget = Widget(size)\nwidget.grow(amount)",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "_internal") {
		t.Error("private methods must not be documented")
	}
	if !strings.Contains(stderr.String(), "Warning: could not load module acme.broken") {
		t.Errorf("expected load warning, stderr:\n%s", stderr.String())
	}
}

func TestRunFlagsFlipPositives(t *testing.T) {
	t.Parallel()
	lib := t.TempDir()
	writeTestFile(t, lib, ".gitignore", "skipped.py\n")
	writeTestFile(t, lib, "skipped.py", "class Skipped:\n    pass\n")
	writeTestFile(t, lib, "kept.py", "class Kept:\n    pass\n")
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--static", "--output-dir", out, "acme", lib}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(readDoc(t, out), "Skipped") {
		t.Error("gitignored module should be skipped by default")
	}

	if err := run([]string{"--static", "--no-gitignore", "--output-dir", out, "acme", lib}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(readDoc(t, out), "## `Skipped` (class)") {
		t.Error("--no-gitignore should include gitignored modules")
	}
}

func TestRunIgnoreFlag(t *testing.T) {
	t.Parallel()
	lib := t.TempDir()
	writeTestFile(t, lib, "m.py", "class Base:\n    pass\n\nclass Child(Base):\n    pass\n")
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--static", "--ignore", "Base", "--output-dir", out, "acme", lib}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	doc := readDoc(t, out)
	if strings.Contains(doc, "`Base`") {
		t.Error("ignored class should be skipped")
	}
	if !strings.Contains(doc, "`Child`") {
		t.Error("Child should be documented")
	}
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()
	lib := t.TempDir()
	writeTestFile(t, lib, "m.py", "class Skip:\n    pass\n\nclass Keep:\n    pass\n")
	out := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "docsgen.yaml")
	writeTestFile(t, filepath.Dir(cfg), filepath.Base(cfg), "static: true\nignore: [Skip]\noutput_dir: "+out+"\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--config", cfg, "acme", lib}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	doc := readDoc(t, out)
	if strings.Contains(doc, "`Skip`") || !strings.Contains(doc, "`Keep`") {
		t.Errorf("config file not applied:\n%s", doc)
	}
}

func TestRunInvalidFiller(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--static", "--filler", "random", "acme", t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "Filler") {
		t.Fatalf("err = %v, want filler validation error", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.String() != "docsgen dev\n" {
		t.Errorf("version output: %q", stdout.String())
	}
}

func TestRunArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"acme"}, &stdout, &stderr); err == nil {
		t.Error("expected error for missing directory argument")
	}
}

func TestRunNotADirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "file.py", "x = 1\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--static", "acme", filepath.Join(dir, "file.py")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("err = %v, want not a directory", err)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--static", "acme", filepath.Join(t.TempDir(), "nope")}, &stdout, &stderr); err == nil {
		t.Error("expected error for missing directory")
	}
}
