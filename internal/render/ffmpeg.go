package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Encoder driver
//
// Owns the ffmpeg subprocess lifecycle: binary resolution at startup,
// argument assembly per background variant, execution with stderr capture,
// and completion/error signaling. The binary path is resolved exactly once —
// renders inject the resolved Encoder instead of probing per call.
// ---------------------------------------------------------------------------

// knownFFmpegLocations are deployment-specific install paths checked when no
// explicit path is configured. Serverless layers commonly mount the binary
// at /opt/bin.
var knownFFmpegLocations = []string{
	"/opt/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/usr/bin/ffmpeg",
}

// Encoder drives the external ffmpeg binary.
type Encoder struct {
	binPath string
}

// NewEncoder resolves the encoder binary: the configured path first, then
// known install locations, then PATH lookup. Returns ErrEncoderNotFound when
// nothing resolves — callers should treat that as fatal for the process.
func NewEncoder(configuredPath string) (*Encoder, error) {
	path, err := resolveBinary(configuredPath)
	if err != nil {
		return nil, err
	}
	return &Encoder{binPath: path}, nil
}

func resolveBinary(configuredPath string) (string, error) {
	candidates := make([]string, 0, len(knownFFmpegLocations)+1)
	if configuredPath != "" {
		candidates = append(candidates, configuredPath)
	}
	candidates = append(candidates, knownFFmpegLocations...)

	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w (checked %s and PATH)", ErrEncoderNotFound, strings.Join(candidates, ", "))
}

// BinPath returns the resolved binary path, mainly for startup logging.
func (e *Encoder) BinPath() string {
	return e.binPath
}

// EncodeJob is the fully resolved unit handed to one subprocess invocation.
type EncodeJob struct {
	Background  Background
	AudioPath   string // empty = no narration input
	FilterGraph string
	DurationSec float64
	OutputPath  string
}

// BuildArgs assembles the ffmpeg invocation for a job. Separated from Encode
// so argument assembly is testable without spawning a process.
func (e *Encoder) BuildArgs(job EncodeJob) []string {
	var args []string

	// Input 0: background, with loop semantics per variant
	switch job.Background.Kind {
	case BackgroundVideo:
		args = append(args, "-stream_loop", "-1", "-i", job.Background.Path)
	case BackgroundImage:
		args = append(args, "-loop", "1", "-framerate", "30", "-i", job.Background.Path)
	case BackgroundGenerated:
		args = append(args, "-f", "lavfi", "-i", job.Background.ColorSpec)
	}

	// Input 1: narration audio, when present
	hasAudio := job.AudioPath != ""
	if hasAudio {
		args = append(args, "-i", job.AudioPath)
	}

	args = append(args, "-filter_complex", job.FilterGraph)
	args = append(args, "-map", "[vout]")
	if hasAudio {
		args = append(args, "-map", "1:a")
	}

	args = append(args,
		"-t", strconv.FormatFloat(job.DurationSec, 'f', -1, 64),
		"-c:v", "libx264",
		"-preset", "veryfast", // speed over compression — renders run under a serverless time budget
		"-pix_fmt", "yuv420p",
	)

	if hasAudio {
		args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	}

	args = append(args,
		"-movflags", "+faststart",
		"-y",
		job.OutputPath,
	)

	return args
}

// Encode runs ffmpeg for the job. Stderr lines are streamed to the logger as
// they arrive and captured for diagnosis; a non-zero exit or spawn failure
// surfaces as *EncodeError with the captured tail. The subprocess is bound
// to ctx, so a caller deadline kills it.
func (e *Encoder) Encode(ctx context.Context, job EncodeJob, logf Logger) error {
	args := e.BuildArgs(job)
	logf("[FFmpeg] starting: %s %s", e.binPath, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.binPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &EncodeError{Err: fmt.Errorf("failed to open stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &EncodeError{Err: fmt.Errorf("failed to open stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &EncodeError{Err: fmt.Errorf("failed to spawn ffmpeg: %w", err)}
	}

	// Both streams go to the injected logger, never to process-wide sinks.
	// Stdout is usually silent; stderr carries all progress output and keeps
	// a bounded tail for the error message.
	stdoutDone := make(chan struct{})
	go func() {
		defer close(stdoutDone)
		streamLines(stdout, logf)
	}()

	var captured []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		line := scanner.Text()
		logf("[FFmpeg] %s", line)
		captured = append(captured, line)
		if len(captured) > 40 {
			captured = captured[1:]
		}
	}
	<-stdoutDone

	if err := cmd.Wait(); err != nil {
		return &EncodeError{
			Stderr: strings.Join(captured, "\n"),
			Err:    err,
		}
	}

	logf("[FFmpeg] finished: %s", job.OutputPath)
	return nil
}

func streamLines(r io.Reader, logf Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		logf("[FFmpeg] %s", scanner.Text())
	}
}
