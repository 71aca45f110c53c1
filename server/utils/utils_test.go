package utils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func (p *payload) WriteTo(w io.Writer) (int64, error) { return MarshalToJson(w, p) }

func TestRespond(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, Respond(rr, http.StatusAccepted, &payload{Name: "fish"}))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var got payload
	n, err := UnmarshalAsJson(rr.Body, &got)
	require.NoError(t, err)
	require.Equal(t, int64(len(`{"name":"fish"}`)), n)
	require.Equal(t, "fish", got.Name)
}

func TestHttpStatusCodeErr(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(bytes.NewBufferString("invalid address\n")),
	}
	require.EqualError(t, HttpStatusCodeErr(resp), "Bad Request: invalid address")
}
