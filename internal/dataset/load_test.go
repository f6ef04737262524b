package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_SkipsBlankLines(t *testing.T) {
	in := strings.Join([]string{
		`{"sequence_id": 1, "video_id": "10", "prompt": "a", "videos": {"ground-truth": "gt/10.mp4"}}`,
		"",
		"   ",
		`{"sequence_id": 2, "video_id": "11", "prompt": "b", "videos": {"ground-truth": "gt/11.mp4"}}`,
		"",
	}, "\n")

	records, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "10", records[0].VideoID)
	require.Equal(t, "11", records[1].VideoID)
}

func TestRead_MalformedLineNamesLineNumber(t *testing.T) {
	in := strings.Join([]string{
		`{"sequence_id": 1, "video_id": "10", "prompt": "a", "videos": {}}`,
		`{"sequence_id": 2,`,
	}, "\n")

	_, err := Read(strings.NewReader(in))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestLoadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comparisons.jsonl")

	var rec Record
	rec.SequenceID = 1
	rec.VideoID = "217"
	rec.Prompt = "Rain on a tin roof."
	rec.SetVideo("ground-truth", "gt/217.mp4")
	rec.SetVideo("hifi-foley", "ours/217.mp4")

	require.NoError(t, WriteFile(path, []Record{rec}))

	back, err := Load(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	require.Equal(t, []string{"ground-truth", "hifi-foley"}, back[0].Methods())
	require.Equal(t, rec.Prompt, back[0].Prompt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
