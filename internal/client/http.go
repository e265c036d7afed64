package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// NewHTTPClient returns the client used for directory calls. With tracing on,
// requests carry the X-Amzn-Trace-Id header and are recorded as subsegments.
func NewHTTPClient(tracing bool) *http.Client {
	c := &http.Client{}
	if tracing {
		return xray.Client(c)
	}
	return c
}

type errorBody struct {
	Message string `json:"message"`
}

func getJSON(ctx context.Context, hc *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
			return fmt.Errorf("get %s: status %d without error message", url, resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Message: body.Message}
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
