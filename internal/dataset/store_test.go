package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"soundstage.systems/foleydeck/internal/livereload"
)

const storeSite = "foley.example.org"

func writeDataset(t *testing.T, path, videoID string) {
	t.Helper()
	line := `{"sequence_id": 1, "video_id": "` + videoID + `", "prompt": "p", "videos": {"ground-truth": "gt/` + videoID + `.mp4"}}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(line), 0o644))
}

func TestStore_LoadFileReportsIdentityChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comparisons.jsonl")
	writeDataset(t, path, "217")

	s := NewStore(storeSite)

	ds, changed, err := s.LoadFile("comparisons", path)
	require.NoError(t, err)
	require.True(t, changed, "first load is always a new identity")
	require.Len(t, ds.Records, 1)

	// Same bytes, same fingerprint.
	_, changed, err = s.LoadFile("comparisons", path)
	require.NoError(t, err)
	require.False(t, changed)

	// New bytes, new fingerprint.
	writeDataset(t, path, "218")
	ds2, changed, err := s.LoadFile("comparisons", path)
	require.NoError(t, err)
	require.True(t, changed)
	require.NotEqual(t, ds.Fingerprint, ds2.Fingerprint)
}

func TestStore_GetAllRequire(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.jsonl")
	pathB := filepath.Join(dir, "b.jsonl")
	writeDataset(t, pathA, "1")
	writeDataset(t, pathB, "2")

	s := NewStore(storeSite)
	_, _, err := s.LoadFile("moviegen", pathB)
	require.NoError(t, err)
	_, _, err = s.LoadFile("comparisons", pathA)
	require.NoError(t, err)

	got, ok := s.Get("comparisons")
	require.True(t, ok)
	require.Equal(t, pathA, got.Path)

	_, ok = s.Get("absent")
	require.False(t, ok)

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "comparisons", all[0].Name, "All is name-ordered")
	require.Equal(t, "moviegen", all[1].Name)

	_, err = s.Require("absent")
	require.ErrorContains(t, err, `dataset "absent" not loaded`)
}

func TestWatcher_ReloadsAndBroadcasts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comparisons.jsonl")
	writeDataset(t, path, "217")

	s := NewStore(storeSite)
	_, _, err := s.LoadFile("comparisons", path)
	require.NoError(t, err)

	hub := livereload.NewHub()
	events, unsub := hub.Subscribe()
	defer unsub()

	w, err := NewWatcher(s, hub)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher a beat to arm before writing.
	time.Sleep(200 * time.Millisecond)
	writeDataset(t, path, "300")

	select {
	case evt := <-events:
		require.Equal(t, "comparisons", evt.Dataset)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event after dataset write")
	}

	ds, ok := s.Get("comparisons")
	require.True(t, ok)
	require.Equal(t, "300", ds.Records[0].VideoID)
}
