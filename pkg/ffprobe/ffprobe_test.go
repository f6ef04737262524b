package ffprobe

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

const sampleOutput = `{
    "streams": [
        {
            "index": 0,
            "codec_name": "h264",
            "codec_type": "video"
        },
        {
            "index": 1,
            "codec_name": "aac",
            "codec_type": "audio"
        }
    ],
    "format": {
        "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
        "duration": "10.027000",
        "size": "2048576"
    }
}`

func TestProbe(t *testing.T) {
	var gotName string
	var gotArgs []string
	client := &Client{
		execFn: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			gotName = name
			gotArgs = args
			return []byte(sampleOutput), nil, nil
		},
	}

	res, err := client.Probe(context.Background(), "clips/GT_3.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if gotName != "ffprobe" {
		t.Errorf("command = %q, want ffprobe", gotName)
	}
	wantArgs := []string{
		"-hide_banner",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"clips/GT_3.mp4",
	}
	if len(gotArgs) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", gotArgs, wantArgs)
	}
	for i := range wantArgs {
		if gotArgs[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, gotArgs[i], wantArgs[i])
		}
	}

	if res.Duration != 10.027 {
		t.Errorf("Duration = %v, want 10.027", res.Duration)
	}
	if res.Size != 2048576 {
		t.Errorf("Size = %d, want 2048576", res.Size)
	}
	if res.FormatName != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("FormatName = %q", res.FormatName)
	}
	if !res.HasVideo() || res.VideoCodec != "h264" {
		t.Errorf("video = (%d, %q), want (1, h264)", res.VideoStreams, res.VideoCodec)
	}
	if !res.HasAudio() || res.AudioCodec != "aac" {
		t.Errorf("audio = (%d, %q), want (1, aac)", res.AudioStreams, res.AudioCodec)
	}
}

func TestProbeSilentFile(t *testing.T) {
	silent := `{
        "streams": [{"index": 0, "codec_name": "h264", "codec_type": "video"}],
        "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "8.0"}
    }`
	client := &Client{
		execFn: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return []byte(silent), nil, nil
		},
	}

	res, err := client.Probe(context.Background(), "video.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.HasAudio() {
		t.Error("HasAudio() = true for a video-only file")
	}
	if !res.HasVideo() {
		t.Error("HasVideo() = false for a video-only file")
	}
}

func TestProbeMissingDuration(t *testing.T) {
	client := &Client{
		execFn: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return []byte(`{"streams": [], "format": {}}`), nil, nil
		},
	}

	res, err := client.Probe(context.Background(), "video.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Duration != 0 {
		t.Errorf("Duration = %v, want 0", res.Duration)
	}
}

func TestProbeMalformedOutput(t *testing.T) {
	client := &Client{
		execFn: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return []byte("not json"), nil, nil
		},
	}

	_, err := client.Probe(context.Background(), "video.mp4")
	if err == nil {
		t.Fatal("expected error for malformed output")
	}
	if !strings.Contains(err.Error(), "parse output") {
		t.Errorf("error = %v, want parse output failure", err)
	}
}

func TestProbeExecFailure(t *testing.T) {
	client := &Client{
		execFn: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return nil, []byte("video.mp4: No such file or directory"), &exec.ExitError{}
		},
	}

	_, err := client.Probe(context.Background(), "video.mp4")
	if err == nil {
		t.Fatal("expected error")
	}

	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecError", err)
	}
	if !strings.Contains(execErr.Stderr, "No such file") {
		t.Errorf("Stderr = %q, want ffprobe message", execErr.Stderr)
	}
}

func TestProbeEmptyPath(t *testing.T) {
	client := &Client{}
	if _, err := client.Probe(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
