/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package retry runs a unit of work with bounded retries and capped
// exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// MaxDelay is the backoff ceiling regardless of attempt count.
const MaxDelay = 10 * time.Second

// capped implements backoff.BackOff with a deterministic exponential
// schedule: min(baseDelay * 2^(attempt-1), MaxDelay). cenkalti/backoff's
// own ExponentialBackOff adds randomization, which would make the k-th
// retry delay untestable, so Do supplies this instead while still reusing
// backoff.Retry/backoff.WithMaxRetries/backoff.WithContext for the looping,
// cancellation, and attempt-count plumbing.
type capped struct {
	baseDelay time.Duration
	attempt   int
}

func (c *capped) Reset() { c.attempt = 0 }

func (c *capped) NextBackOff() time.Duration {
	c.attempt++
	d := c.baseDelay * time.Duration(1<<uint(c.attempt-1))
	if d > MaxDelay || d <= 0 {
		return MaxDelay
	}
	return d
}

// Do runs fn up to retries+1 times. Between attempts it sleeps
// min(baseDelay*2^(attempt-1), 10s). Any error is retryable; exhaustion
// returns the last error. Do does not classify errors — that happens at
// the user-display layer.
func Do(ctx context.Context, retries int, baseDelay time.Duration, fn func(attempt int) error) error {
	attempt := 0
	bo := backoff.WithContext(
		backoff.WithMaxRetries(&capped{baseDelay: baseDelay}, uint64(retries)),
		ctx,
	)

	op := func() error {
		attempt++
		err := fn(attempt)
		if err != nil {
			logrus.WithError(err).WithField("attempt", attempt).Debug("retry: attempt failed")
		}
		return err
	}

	return backoff.Retry(op, bo)
}
