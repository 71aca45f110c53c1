package pinprovider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	require.Equal(t, "v0.1.0", Release)
	require.True(t, strings.HasPrefix(Version, Release))
	require.Empty(t, readRelease([]byte("not json")))
}
