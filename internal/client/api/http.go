package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jcastrov/biblio/internal/common"
)

// doJSON issues one JSON request and decodes the response into out (which
// may be nil for empty-body replies). Transport failures and non-2xx
// statuses come back already classified.
func doJSON(ctx context.Context, client *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: respuesta ilegible: %v", common.ErrServer, err)
	}
	return nil
}

// statusError converts an error status into the taxonomy, carrying along a
// server-provided message when the body has one.
func statusError(resp *http.Response) error {
	var kind error
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		kind = common.ErrBadRequest
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// A 401 reaching this point already survived the transport's
		// single refresh attempt.
		kind = common.ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		kind = common.ErrNotFound
	default:
		kind = common.ErrServer
	}

	if msg := remoteMessage(resp.Body); msg != "" {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: estado %d", kind, resp.StatusCode)
}

func remoteMessage(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return ""
	}
	return payload.Message
}
