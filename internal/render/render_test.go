package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// writeStub creates an executable shell script standing in for the render
// binary.
func writeStub(t *testing.T, dir, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(dir, "fake-render")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func testConfig(t *testing.T, binary string, timeoutSeconds int) config.Render {
	t.Helper()
	dir := t.TempDir()
	return config.Render{
		Binary:         binary,
		Quality:        "medium_quality",
		TimeoutSeconds: timeoutSeconds,
		OutputDir:      filepath.Join(dir, "outputs"),
		TempDir:        filepath.Join(dir, "tmp"),
	}
}

var testCode = model.GeneratedCode{
	EntryPointName: "DemoScene",
	SourceText:     "from manim import *\n\nclass DemoScene(Scene):\n    def construct(self):\n        self.wait(1)\n",
}

func TestRender_Success(t *testing.T) {
	dir := t.TempDir()
	// The stub ignores its flags and drops an mp4 where the media dir flag
	// points, mimicking the real binary's nested output layout.
	stub := writeStub(t, dir, `
media=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--media_dir" ]; then media="$arg"; fi
  prev="$arg"
done
mkdir -p "$media/videos/480p"
printf 'video-bytes' > "$media/videos/480p/DemoScene.mp4"
`)
	cfg := testConfig(t, stub, 30)
	m := NewManager(cfg)

	out := m.Render(context.Background(), testCode, "job1")
	if !out.OK() {
		t.Fatalf("expected success, got %s: %s", out.Kind, out.Log)
	}
	want := filepath.Join(cfg.OutputDir, "job1.mp4")
	if out.ArtifactPath != want {
		t.Fatalf("artifact path = %q, want %q", out.ArtifactPath, want)
	}
	data, err := os.ReadFile(out.ArtifactPath)
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("canonical copy missing or wrong: %v %q", err, data)
	}
	// The script must have been written under the temp dir.
	script := filepath.Join(cfg.TempDir, "scene_job1.py")
	if _, err := os.Stat(script); err != nil {
		t.Fatalf("render script not written: %v", err)
	}
}

func TestRender_NewestArtifactWins(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, `
media=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--media_dir" ]; then media="$arg"; fi
  prev="$arg"
done
mkdir -p "$media/videos"
printf 'old' > "$media/videos/partial.mp4"
touch -t 200001010000 "$media/videos/partial.mp4"
printf 'new' > "$media/videos/final.mp4"
`)
	m := NewManager(testConfig(t, stub, 30))

	out := m.Render(context.Background(), testCode, "job2")
	if !out.OK() {
		t.Fatalf("expected success, got %s: %s", out.Kind, out.Log)
	}
	data, _ := os.ReadFile(out.ArtifactPath)
	if string(data) != "new" {
		t.Fatalf("newest artifact must win, got %q", data)
	}
}

func TestRender_NonzeroExit(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "echo 'latex blew up' >&2\nexit 3\n")
	m := NewManager(testConfig(t, stub, 30))

	out := m.Render(context.Background(), testCode, "job3")
	if out.OK() || out.Kind != FailNonzeroExit {
		t.Fatalf("want %s, got %q (%s)", FailNonzeroExit, out.Kind, out.Log)
	}
	if !strings.Contains(out.Log, "latex blew up") {
		t.Fatalf("stderr must be captured in the log: %s", out.Log)
	}
}

func TestRender_MissingBinary(t *testing.T) {
	m := NewManager(testConfig(t, "definitely-not-a-real-binary-name", 30))

	out := m.Render(context.Background(), testCode, "job4")
	if out.OK() || out.Kind != FailMissingBinary {
		t.Fatalf("want %s, got %q (%s)", FailMissingBinary, out.Kind, out.Log)
	}
}

func TestRender_Timeout(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "sleep 10\n")
	m := NewManager(testConfig(t, stub, 1))

	out := m.Render(context.Background(), testCode, "job5")
	if out.OK() || out.Kind != FailTimeout {
		t.Fatalf("want %s, got %q (%s)", FailTimeout, out.Kind, out.Log)
	}
}

func TestRender_NoArtifact(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "exit 0\n")
	m := NewManager(testConfig(t, stub, 30))

	out := m.Render(context.Background(), testCode, "job6")
	if out.OK() || out.Kind != FailNoArtifact {
		t.Fatalf("want %s, got %q (%s)", FailNoArtifact, out.Kind, out.Log)
	}
}

func TestNewJob_Paths(t *testing.T) {
	cfg := config.Render{OutputDir: "outputs", TempDir: "tmp"}
	m := NewManager(cfg)
	job := m.NewJob("abc-123")

	if job.ScriptPath != filepath.Join("tmp", "scene_abc-123.py") {
		t.Fatalf("script path: %q", job.ScriptPath)
	}
	if job.MediaDir != filepath.Join("outputs", "abc-123") {
		t.Fatalf("media dir: %q", job.MediaDir)
	}
	if job.OutputPath != filepath.Join("outputs", "abc-123.mp4") {
		t.Fatalf("output path: %q", job.OutputPath)
	}
}
