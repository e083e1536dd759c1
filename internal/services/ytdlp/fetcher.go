package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"tubewatch/internal/services"
)

// commandRunner executes the external downloader. Tests swap it out.
type commandRunner func(ctx context.Context, binary string, args []string) (stdout, stderr string, err error)

// Fetcher downloads a video's audio track with yt-dlp.
type Fetcher struct {
	binary      string
	downloadDir string
	runner      commandRunner
}

// NewFetcher builds an audio fetcher writing into downloadDir.
func NewFetcher(binary, downloadDir string) *Fetcher {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Fetcher{
		binary:      binary,
		downloadDir: downloadDir,
		runner:      runCommand,
	}
}

// WithCommandRunner overrides process execution for tests.
func (f *Fetcher) WithCommandRunner(runner commandRunner) *Fetcher {
	f.runner = runner
	return f
}

// Fetch downloads the audio for videoID and returns the path of the file
// yt-dlp produced. Format 140 (m4a) is requested first because the speech
// transcriber handles it directly.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	args := []string{
		"--format", "140/bestaudio/best",
		"--quiet",
		"--no-warnings",
		"--no-cache-dir",
		"--output", filepath.Join(f.downloadDir, videoID+".%(ext)s"),
		"--print", "after_move:filepath",
		"https://www.youtube.com/watch?v=" + videoID,
	}

	stdout, stderr, err := f.runner(ctx, f.binary, args)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrAcquisition, "ytdlp", "fetch",
			fmt.Sprintf("download audio for %s: %s", videoID, detail), err)
	}

	path := lastNonEmptyLine(stdout)
	if path == "" {
		return "", services.Wrap(services.ErrAcquisition, "ytdlp", "fetch",
			fmt.Sprintf("yt-dlp reported no output file for %s", videoID), nil)
	}
	return path, nil
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func runCommand(ctx context.Context, binary string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
