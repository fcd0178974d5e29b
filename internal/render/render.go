// Package render writes a generated script to a job-scoped location, runs
// the external render binary under a hard timeout, classifies the outcome,
// and discovers the produced media file.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// FailureKind classifies a failed render.
type FailureKind string

const (
	FailWrite         FailureKind = "write_error"
	FailMissingBinary FailureKind = "missing_binary"
	FailTimeout       FailureKind = "timeout"
	FailNonzeroExit   FailureKind = "nonzero_exit"
	FailNoArtifact    FailureKind = "no_artifact"
)

// Outcome is the result of one render invocation.
type Outcome struct {
	ArtifactPath string      `json:"artifact_path,omitempty"`
	Kind         FailureKind `json:"failure_kind,omitempty"`
	Log          string      `json:"log,omitempty"`
}

// OK reports whether the render produced an artifact.
func (o Outcome) OK() bool { return o.Kind == "" }

func failure(kind FailureKind, format string, args ...any) Outcome {
	return Outcome{Kind: kind, Log: fmt.Sprintf(format, args...)}
}

// qualityFlags maps configured quality names to render CLI flags.
var qualityFlags = map[string]string{
	"low_quality":        "-ql",
	"medium_quality":     "-qm",
	"high_quality":       "-qh",
	"production_quality": "-qp",
}

const defaultQualityFlag = "-qm"

const mediaExtension = ".mp4"

// Job holds the filesystem namespace owned by one pipeline execution. Paths
// are keyed by the job identifier and never shared between jobs.
type Job struct {
	ID         string
	ScriptPath string
	MediaDir   string
	OutputPath string
}

// Manager runs the external render binary.
type Manager struct {
	binary    string
	quality   string
	timeout   time.Duration
	outputDir string
	tempDir   string
}

// NewManager builds a manager from render config.
func NewManager(cfg config.Render) *Manager {
	return &Manager{
		binary:    cfg.Binary,
		quality:   cfg.Quality,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		outputDir: cfg.OutputDir,
		tempDir:   cfg.TempDir,
	}
}

// NewJob returns the filesystem namespace for a job identifier.
func (m *Manager) NewJob(jobID string) Job {
	return Job{
		ID:         jobID,
		ScriptPath: filepath.Join(m.tempDir, "scene_"+jobID+".py"),
		MediaDir:   filepath.Join(m.outputDir, jobID),
		OutputPath: filepath.Join(m.outputDir, jobID+mediaExtension),
	}
}

// Render executes the full render lifecycle for a code artifact. The
// subprocess is bounded by the configured timeout; on expiry it is killed
// before the timeout failure is returned.
func (m *Manager) Render(ctx context.Context, code model.GeneratedCode, jobID string) Outcome {
	job := m.NewJob(jobID)

	if err := os.MkdirAll(filepath.Dir(job.ScriptPath), 0755); err != nil {
		return failure(FailWrite, "create temp dir: %v", err)
	}
	if err := os.WriteFile(job.ScriptPath, []byte(code.SourceText), 0644); err != nil {
		return failure(FailWrite, "write render script: %v", err)
	}
	if err := os.MkdirAll(job.MediaDir, 0755); err != nil {
		return failure(FailWrite, "create media dir: %v", err)
	}

	entryPoint := code.ResolveEntryPoint()
	qualityFlag, ok := qualityFlags[m.quality]
	if !ok {
		qualityFlag = defaultQualityFlag
	}

	args := []string{
		"render",
		qualityFlag,
		job.ScriptPath,
		entryPoint,
		"--media_dir", job.MediaDir,
		"--disable_caching",
	}
	log.Printf("render: running %s %s", m.binary, strings.Join(args, " "))

	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, m.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		// CommandContext killed the process; nothing keeps running.
		return failure(FailTimeout, "render timed out after %s", m.timeout)
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return failure(FailMissingBinary, "render binary %q not found in PATH", m.binary)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return failure(FailNonzeroExit, "render exited with code %d\nSTDOUT:\n%s\nSTDERR:\n%s",
				exitErr.ExitCode(), stdout.String(), stderr.String())
		}
		return failure(FailNonzeroExit, "render failed to run: %v", err)
	}

	artifact, err := findNewestMedia(job.MediaDir)
	if err != nil {
		return failure(FailNoArtifact, "render reported success but no %s found under %s\nSTDOUT:\n%s",
			mediaExtension, job.MediaDir, stdout.String())
	}

	if err := copyFile(artifact, job.OutputPath); err != nil {
		return failure(FailWrite, "copy artifact to output path: %v", err)
	}

	log.Printf("render: successful, artifact at %s", job.OutputPath)
	return Outcome{ArtifactPath: job.OutputPath}
}

// findNewestMedia recursively searches for media files under dir and
// returns the most recently modified one.
func findNewestMedia(dir string) (string, error) {
	var newest string
	var newestMod time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, mediaExtension) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = path
			newestMod = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if newest == "" {
		return "", fmt.Errorf("no %s files under %s", mediaExtension, dir)
	}
	return newest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
