package asset

import (
	"context"
	"io"
	"net/http"
)

// Fetch downloads url.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, FetchFailed.Wrap(err, "build request for %s", url)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, FetchFailed.Wrap(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, FetchFailed.New("GET %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, FetchFailed.Wrap(err, "read %s", url)
	}

	return data, nil
}
