package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	pinprovider "github.com/ipni/pin-provider"
	"github.com/stretchr/testify/require"
)

func TestServerExposesStorageMetrics(t *testing.T) {
	s, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	ctx := context.Background()
	RecordUpload(ctx, true)
	RecordExists(ctx, pinprovider.NotPinned)
	RecordRemoval(ctx, true, 2, 1)

	resp, err := http.Get("http://" + s.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "pin_provider_storage_uploads")
	require.Contains(t, string(body), "pin_provider_storage_blocks_removed")
}
