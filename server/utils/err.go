package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HttpStatusCodeErr constructs an error from a non-OK admin server response.  The message
// consists of the status text followed by the trimmed response body.
func HttpStatusCodeErr(resp *http.Response) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	statusText := http.StatusText(resp.StatusCode)
	return fmt.Errorf("%s: %s", statusText, strings.TrimSpace(string(respBody)))
}
