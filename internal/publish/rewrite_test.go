package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"soundstage.systems/foleydeck/internal/dataset"
)

func writeManifest(t *testing.T) string {
	t.Helper()
	var recs []dataset.Record

	r1 := dataset.Record{SequenceID: 1, VideoID: "3", Prompt: "Rain against a tin roof"}
	r1.SetVideo("ground-truth", "renders/GT_3.mp4")
	r1.SetVideo("hifi-foley", "renders/Ours__128d_200k__3.mp4")
	r1.SetVideo("mmaudio", "renders/MMAudio_3.mp4")
	recs = append(recs, r1)

	r2 := dataset.Record{SequenceID: 2, VideoID: "12"}
	r2.SetVideo("ground-truth", "renders/GT_12.mp4")
	recs = append(recs, r2)

	p := filepath.Join(t.TempDir(), "comparison.jsonl")
	require.NoError(t, dataset.WriteFile(p, recs))
	return p
}

func TestRewriteManifest(t *testing.T) {
	p := writeManifest(t)
	urls := map[string]string{
		"GT_3.mp4":               "https://cdn.example/foley/GT_3.mp4?sign=a&t=1",
		"Ours__128d_200k__3.mp4": "https://cdn.example/foley/Ours__128d_200k__3.mp4?sign=b",
	}

	stats, err := RewriteManifest(p, urls)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Records)
	require.Equal(t, 1, stats.Updated)
	require.Equal(t, 2, stats.Replaced)

	records, err := dataset.Load(p)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/foley/GT_3.mp4?sign=a&t=1", records[0].Videos["ground-truth"])
	require.Equal(t, "renders/MMAudio_3.mp4", records[0].Videos["mmaudio"])
	require.Equal(t, "renders/GT_12.mp4", records[1].Videos["ground-truth"])

	// key order survives the rewrite
	require.Equal(t, []string{"ground-truth", "hifi-foley", "mmaudio"}, records[0].Methods())
	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	line := strings.SplitN(string(raw), "\n", 2)[0]
	require.Less(t, strings.Index(line, "ground-truth"), strings.Index(line, "hifi-foley"))
	require.Less(t, strings.Index(line, "hifi-foley"), strings.Index(line, "mmaudio"))
	// signed query strings stay verbatim
	require.Contains(t, line, "?sign=a&t=1")
	require.NotContains(t, line, `&`)
}

func TestRewriteManifestCreatesBackup(t *testing.T) {
	p := writeManifest(t)
	before, err := os.ReadFile(p)
	require.NoError(t, err)

	_, err = RewriteManifest(p, map[string]string{"GT_3.mp4": "https://cdn.example/GT_3.mp4"})
	require.NoError(t, err)

	backup, err := os.ReadFile(p + ".backup")
	require.NoError(t, err)
	require.Equal(t, before, backup)
}

func TestRewriteManifestNoMatches(t *testing.T) {
	p := writeManifest(t)

	stats, err := RewriteManifest(p, map[string]string{"unrelated.mp4": "https://cdn.example/x.mp4"})
	require.NoError(t, err)
	require.Zero(t, stats.Replaced)
	require.Zero(t, stats.Updated)

	_, err = os.Stat(p + ".backup")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRewriteManifestReplacesStaleURLs(t *testing.T) {
	p := writeManifest(t)
	_, err := RewriteManifest(p, map[string]string{"GT_3.mp4": "https://cdn.example/old/GT_3.mp4"})
	require.NoError(t, err)

	// re-signing matches the base name of the previous URL
	stats, err := RewriteManifest(p, map[string]string{"GT_3.mp4": "https://cdn.example/new/GT_3.mp4"})
	require.NoError(t, err)
	require.Equal(t, 1, stats.Replaced)

	records, err := dataset.Load(p)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/new/GT_3.mp4", records[0].Videos["ground-truth"])
}

func TestRewriteManifestMissingFile(t *testing.T) {
	_, err := RewriteManifest(filepath.Join(t.TempDir(), "absent.jsonl"), nil)
	require.Error(t, err)
}
