package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	require.Equal(t, "512 B", Bytes(512))
	require.Equal(t, "1.0 KB", Bytes(1024))
	require.Equal(t, "1.5 MB", Bytes(1572864))
	require.Equal(t, "2.0 GB", Bytes(2147483648))
}

func TestNumber(t *testing.T) {
	require.Equal(t, "999", Number(999))
	require.Equal(t, "1.5K", Number(1500))
	require.Equal(t, "2.0M", Number(2000000))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "a long ...", Truncate("a long prompt about rain", 10))
}

func TestDuration(t *testing.T) {
	require.Equal(t, "0:00", Duration(-1))
	require.Equal(t, "0:07", Duration(7.4))
	require.Equal(t, "1:05", Duration(65))
	require.Equal(t, "1:01:05", Duration(3665))
}
