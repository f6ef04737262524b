package cos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSignURL(t *testing.T) {
	c := New("demo-papers", "ap-shanghai")
	var gotArgs []string
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		out := "Obtaining credentials\nhttps://demo-papers.cos.ap-shanghai.myqcloud.com/videos/a.mp4?sign=abc\n"
		return []byte(out), nil, nil
	}

	url, err := c.SignURL(context.Background(), "videos/a.mp4", 3600*time.Second)
	if err != nil {
		t.Fatalf("SignURL failed: %v", err)
	}
	if url != "https://demo-papers.cos.ap-shanghai.myqcloud.com/videos/a.mp4?sign=abc" {
		t.Errorf("unexpected url: %s", url)
	}
	want := []string{"signurl", "-t", "3600", "videos/a.mp4"}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestSignURLDefaultTTL(t *testing.T) {
	c := New("b", "r")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		if len(args) < 3 || args[1] != "-t" || args[2] != "157680000" {
			t.Errorf("expected default ttl in args, got %v", args)
		}
		return []byte("https://x/y\n"), nil, nil
	}
	if _, err := c.SignURL(context.Background(), "y", 0); err != nil {
		t.Fatalf("SignURL failed: %v", err)
	}
}

func TestSignURLEmptyKey(t *testing.T) {
	c := New("b", "r")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		t.Fatal("exec should not be called")
		return nil, nil, nil
	}
	if _, err := c.SignURL(context.Background(), "  ", time.Hour); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSignURLNoURLInOutput(t *testing.T) {
	c := New("b", "r")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte("Obtaining credentials\ndone\n"), nil, nil
	}

	_, err := c.SignURL(context.Background(), "videos/a.mp4", time.Hour)
	if err == nil {
		t.Fatal("expected error when output has no url")
	}
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecError, got %T", err)
	}
	if execErr.Stdout != "Obtaining credentials\ndone" {
		t.Errorf("unexpected stdout capture: %q", execErr.Stdout)
	}
}

func TestSignURLExecFailure(t *testing.T) {
	c := New("b", "r")
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("ERROR: bucket not configured"), fmt.Errorf("exit status 255")
	}

	_, err := c.SignURL(context.Background(), "videos/a.mp4", time.Hour)
	if err == nil {
		t.Fatal("expected error")
	}
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecError, got %T", err)
	}
	if execErr.Stderr != "ERROR: bucket not configured" {
		t.Errorf("unexpected stderr: %q", execErr.Stderr)
	}
	if !strings.Contains(execErr.Error(), "signurl") {
		t.Errorf("error should mention the subcommand: %s", execErr.Error())
	}
}

func TestExtraArgs(t *testing.T) {
	c := New("b", "r")
	c.ExtraArgs = []string{"-c", "/etc/coscmd.conf"}
	c.execFn = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		if args[0] != "-c" || args[1] != "/etc/coscmd.conf" {
			t.Errorf("extra args not prepended: %v", args)
		}
		return []byte("https://x/y"), nil, nil
	}
	if _, err := c.SignURL(context.Background(), "y", time.Hour); err != nil {
		t.Fatalf("SignURL failed: %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		bucket, region, key string
		want                string
	}{
		{
			"demo-papers", "ap-shanghai", "videos/foley/GT_3-1.mp4",
			"https://demo-papers.cos.ap-shanghai.myqcloud.com/videos/foley/GT_3-1.mp4",
		},
		{
			"demo-papers", "ap-shanghai", "/videos/a b.mp4",
			"https://demo-papers.cos.ap-shanghai.myqcloud.com/videos/a%20b.mp4",
		},
	}
	for _, tt := range tests {
		got := PublicURL(tt.bucket, tt.region, tt.key)
		if got != tt.want {
			t.Errorf("PublicURL(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestPathOrDefault(t *testing.T) {
	c := &Client{}
	if got := c.PathOrDefault(); got != "coscmd" {
		t.Errorf("default path = %q", got)
	}
	c.Path = "/opt/bin/coscmd"
	if got := c.PathOrDefault(); got != "/opt/bin/coscmd" {
		t.Errorf("configured path = %q", got)
	}
}

func TestStreamWriterSplitsCarriageReturns(t *testing.T) {
	var lines []string
	w := &streamWriter{stream: "stdout", callback: func(stream, line string) {
		lines = append(lines, line)
	}}

	w.Write([]byte("upload 10%\rupload 50%\rupload 100%\ndone\n"))
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	if lines[2] != "upload 100%" || lines[3] != "done" {
		t.Errorf("unexpected lines: %v", lines)
	}
}
