package source

import (
	"context"
	"fmt"
)

// fetchState tracks one page request through the rate-limit retry policy.
type fetchState int

const (
	stateRequesting fetchState = iota
	stateBackoff
	stateSucceeded
	stateAborted
)

// fetchPage GETs url, applying the rate-limit policy: a 429 response moves
// to backoff, waits the cool-down, and re-issues the same request without
// advancing the cursor, until the retry budget is exhausted. Any other error
// aborts immediately.
func (c *core) fetchPage(ctx context.Context, url string) ([]byte, error) {
	state := stateRequesting
	retries := 0

	var body []byte
	var err error
	for {
		switch state {
		case stateRequesting:
			body, err = c.get(ctx, url)
			switch {
			case err == nil:
				state = stateSucceeded
			case isRateLimit(err):
				state = stateBackoff
			default:
				state = stateAborted
			}

		case stateBackoff:
			if retries >= c.maxRateRetries {
				err = fmt.Errorf("rate limit retries exhausted after %d attempts: %w", retries, err)
				state = stateAborted
				continue
			}
			retries++
			c.logger.Warn("rate limited, cooling down",
				"wait", c.cooldown,
				"attempt", retries,
			)
			if serr := sleep(ctx, c.cooldown); serr != nil {
				return nil, serr
			}
			state = stateRequesting

		case stateSucceeded:
			return body, nil

		case stateAborted:
			return nil, err
		}
	}
}
