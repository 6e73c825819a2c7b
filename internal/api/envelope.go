package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// envelope is the {success, data, message} wrapper every endpoint answers with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *envelope) hasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

func decodeEnvelope(status int, body []byte, out any, fallback string) error {
	ok := status >= 200 && status < 300

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if !ok {
			msg := fallback
			if msg == "" {
				msg = http.StatusText(status)
			}
			return &Error{Kind: KindAPI, Status: status, Message: msg}
		}
		return &Error{Kind: KindDecode, Status: status, Message: "Unexpected response from server", Err: err}
	}

	if !ok || !env.Success {
		return &Error{Kind: KindAPI, Status: status, Message: pickMessage(env.Message, fallback, status)}
	}
	if !env.hasData() {
		return &Error{Kind: KindAPI, Status: status, Message: pickMessage(env.Message, fallback, status)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindDecode, Status: status, Message: "Unexpected response from server", Err: err}
	}
	return nil
}

func pickMessage(server, fallback string, status int) string {
	if server != "" {
		return server
	}
	if fallback != "" {
		return fallback
	}
	if status >= 400 {
		return http.StatusText(status)
	}
	return defaultMessage
}
