package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ipni/pin-provider/server/utils"
)

// doHttpPostReq marshals the req to JSON and sends a POST request with content type
// application/json to the given path of the admin server.
func doHttpPostReq(ctx context.Context, path string, req interface{}) (resp *http.Response, err error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, adminAPIFlagValue+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(httpReq)
}

func doHttpGetReq(ctx context.Context, path string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, adminAPIFlagValue+path, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(httpReq)
}

// decodeResp decodes an OK response from the admin server into res.  Non-OK responses are
// turned into an error carrying the response body.
func decodeResp(resp *http.Response, res io.ReaderFrom) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return utils.HttpStatusCodeErr(resp)
	}
	if _, err := res.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("cannot decode admin server response: %w", err)
	}
	return nil
}
