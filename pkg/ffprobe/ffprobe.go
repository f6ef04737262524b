// Package ffprobe runs ffprobe in JSON mode and reports the container
// duration and stream layout of a media file.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type ExecError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *ExecError) Error() string {
	cmdline := strings.TrimSpace(e.Cmd + " " + strings.Join(e.Args, " "))
	if e.ExitCode != 0 {
		return fmt.Sprintf("ffprobe: command failed (exit %d): %s", e.ExitCode, cmdline)
	}
	return fmt.Sprintf("ffprobe: command failed: %s", cmdline)
}

func (e *ExecError) Unwrap() error { return e.Cause }

// Result is the probe summary for one file.
type Result struct {
	Duration   float64 // seconds
	Size       int64   // bytes
	FormatName string  // container format (mov,mp4,m4a,... for mp4 family)

	VideoStreams int
	AudioStreams int
	VideoCodec   string // first video stream
	AudioCodec   string // first audio stream
}

func (r *Result) HasAudio() bool { return r.AudioStreams > 0 }
func (r *Result) HasVideo() bool { return r.VideoStreams > 0 }

type Client struct {
	// Path to the ffprobe executable. Defaults to "ffprobe" (PATH lookup).
	Path string

	// ExtraArgs are always appended before per-call args.
	ExtraArgs []string

	execFn func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// probeOutput matches ffprobe's -print_format json shape. Numeric format
// fields arrive as decimal strings.
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Probe runs ffprobe against path and parses the JSON report.
func (c *Client) Probe(ctx context.Context, path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ffprobe: file path is required")
	}

	args := []string{
		"-hide_banner",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, fmt.Errorf("ffprobe: parse output for %s: %w", path, err)
	}

	res := &Result{FormatName: out.Format.FormatName}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("ffprobe: parse duration %q for %s: %w", out.Format.Duration, path, err)
		}
		res.Duration = d
	}
	if out.Format.Size != "" {
		res.Size, _ = strconv.ParseInt(out.Format.Size, 10, 64)
	}

	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			res.VideoStreams++
			if res.VideoCodec == "" {
				res.VideoCodec = stream.CodecName
			}
		case "audio":
			res.AudioStreams++
			if res.AudioCodec == "" {
				res.AudioCodec = stream.CodecName
			}
		}
	}
	return res, nil
}

func (c *Client) exec(ctx context.Context, args ...string) (stdout []byte, stderr []byte, err error) {
	name := c.PathOrDefault()

	fullArgs := make([]string, 0, len(c.ExtraArgs)+len(args))
	fullArgs = append(fullArgs, c.ExtraArgs...)
	fullArgs = append(fullArgs, args...)

	if c.execFn != nil {
		return c.execFn(ctx, name, fullArgs...)
	}

	cmd := exec.CommandContext(ctx, name, fullArgs...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// PathOrDefault returns the configured path or "ffprobe" if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return "ffprobe"
	}
	return c.Path
}

func wrapExecError(cmd string, args []string, stdout []byte, stderr []byte, cause error) error {
	exitCode := 0
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}

	return &ExecError{
		Cmd:      cmd,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(string(stdout)),
		Stderr:   strings.TrimSpace(string(stderr)),
		Cause:    cause,
	}
}
