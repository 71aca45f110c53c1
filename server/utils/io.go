package utils

import (
	"encoding/json"
	"io"
	"net/http"
)

// Respond writes the status code followed by the JSON body.
func Respond(w http.ResponseWriter, statusCode int, body io.WriterTo) error {
	w.WriteHeader(statusCode)
	_, err := body.WriteTo(w)
	return err
}

func UnmarshalAsJson(r io.Reader, dst interface{}) (int64, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	return int64(len(body)), json.Unmarshal(body, dst)
}

func MarshalToJson(w io.Writer, src interface{}) (int64, error) {
	body, err := json.Marshal(src)
	if err != nil {
		return 0, err
	}
	written, err := w.Write(body)
	return int64(written), err
}
