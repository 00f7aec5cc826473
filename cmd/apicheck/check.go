package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// result is the outcome of timing one endpoint. Both aggregation endpoints
// answer JSON arrays, so a successful check carries the item count.
type result struct {
	name    string
	count   int
	elapsed time.Duration
	err     error
}

func run(c *cli.Context) error {
	baseURL := strings.TrimRight(c.String("base-url"), "/")
	client := &http.Client{Timeout: c.Duration("timeout")}

	checks := []struct {
		name string
		path string
	}{
		{name: "campaigns dashboard", path: "/api/campaigns/dashboard"},
		{name: "mailboxes", path: "/api/mailboxes"},
	}

	var total time.Duration
	failed := false
	for i, check := range checks {
		if i > 0 {
			if err := wait(c.Context, c.Duration("pause")); err != nil {
				return err
			}
		}

		res := measure(c.Context, client, check.name, baseURL+check.path)
		report(res)
		total += res.elapsed
		if res.err != nil {
			failed = true
		}
	}

	fmt.Printf("total: %s\n", total.Round(10*time.Millisecond))
	if failed {
		return errors.New("one or more checks failed")
	}
	return nil
}

func measure(ctx context.Context, client *http.Client, name, url string) result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return result{name: name, err: err}
	}

	res, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return result{name: name, elapsed: elapsed, err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 200))
		return result{name: name, elapsed: elapsed, err: fmt.Errorf("HTTP %d: %s", res.StatusCode, body)}
	}

	var items []json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return result{name: name, elapsed: elapsed, err: fmt.Errorf("decode response: %w", err)}
	}
	return result{name: name, count: len(items), elapsed: elapsed}
}

func report(res result) {
	if res.err != nil {
		fmt.Printf("%s: FAILED after %s: %v\n", res.name, res.elapsed.Round(10*time.Millisecond), res.err)
		return
	}

	fmt.Printf("%s: %d items in %s\n", res.name, res.count, res.elapsed.Round(10*time.Millisecond))
	if res.count > 0 {
		fmt.Printf("  average per item: %s\n", (res.elapsed / time.Duration(res.count)).Round(time.Millisecond))
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
