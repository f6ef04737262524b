package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNamespaceForSite(t *testing.T) {
	ns := NamespaceForSite("foley.example.org")
	require.Equal(t, uuid.MustParse("14817cb7-9d29-5b61-a904-3fcba415add2"), ns)

	// Case and a trailing dot do not change the namespace.
	require.Equal(t, ns, NamespaceForSite("Foley.Example.ORG."))

	require.Equal(t, uuid.MustParse("71d7df3e-c028-53a7-acb1-de0ede03055c"),
		NamespaceForSite("demo.localhost"))
}

func TestContent_Deterministic(t *testing.T) {
	data := []byte(`{"sequence_id": 1, "video_id": "217", "prompt": "p", "videos": {"ground-truth": "gt/217.mp4"}}` + "\n")

	got := Content("foley.example.org", data)
	require.Equal(t, uuid.MustParse("204d8a1d-cc7f-5d28-8f56-8926d6c6f563"), got)
	require.Equal(t, got, Content("foley.example.org", data))

	require.Equal(t, uuid.MustParse("b7e57fe5-c6e2-552d-8e02-ed91e828aab7"),
		Content("foley.example.org", nil))

	// Any byte change or a different site moves the fingerprint.
	require.NotEqual(t, got, Content("foley.example.org", append(data, ' ')))
	require.NotEqual(t, got, Content("demo.localhost", data))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	data := []byte(`{"sequence_id": 1, "video_id": "217", "prompt": "p", "videos": {"ground-truth": "gt/217.mp4"}}` + "\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	id, size, err := File("foley.example.org", path)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)
	require.Equal(t, Content("foley.example.org", data), id)

	_, _, err = File("foley.example.org", filepath.Join(dir, "missing.jsonl"))
	require.Error(t, err)
}
