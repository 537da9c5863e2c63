package frametests

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// WaitForCondition polls condition until it reports true or timeout occurs.
func WaitForCondition(
	ctx context.Context,
	condition func() bool,
	timeout time.Duration,
	pollInterval time.Duration,
) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if condition() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
			// Continue polling
		}
	}

	return fmt.Errorf("condition not met within timeout of %v", timeout)
}

// WaitForHTTP polls url until it answers with any status.
func WaitForHTTP(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: time.Second}
	return WaitForCondition(ctx, func() bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, timeout, 50*time.Millisecond)
}
